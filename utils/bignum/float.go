package bignum

import "math/big"

// NewFloat allocates a *big.Float set to x at the given bit precision.
func NewFloat(x float64, prec uint) (y *big.Float) {
	y = new(big.Float)
	y.SetPrec(prec)
	y.SetFloat64(x)
	return
}
