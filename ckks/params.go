// Package ckks implements the CKKS encoder and the top-level
// create-context/encrypt/decrypt surface that ties the scheme-agnostic
// rlwe substrate to approximate complex-vector arithmetic.
package ckks

import (
	"fmt"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/rlwe"
)

// NewParameters builds CKKS EncryptParameters for ring degree N and the
// given coefficient-modulus bit sizes (typically [60, s, s, 60], where s
// is the scale bit-length): it finds distinct NTT-friendly primes for
// each requested bit size and assembles them in the order requested.
func NewParameters(N int, coeffModulusBitSizes []int) (*rlwe.EncryptParameters, error) {
	if len(coeffModulusBitSizes) == 0 {
		return nil, fmt.Errorf("ckks: coeff_modulus_bit_sizes must be non-empty")
	}

	counts := make(map[int]int)
	for _, b := range coeffModulusBitSizes {
		counts[b]++
	}
	pools := make(map[int][]uint64, len(counts))
	for b, c := range counts {
		primes, err := ring.FindPrimes(N, b, c)
		if err != nil {
			return nil, fmt.Errorf("ckks: %w", err)
		}
		pools[b] = primes
	}

	idx := make(map[int]int, len(counts))
	moduli := make([]ring.Modulus, len(coeffModulusBitSizes))
	for i, b := range coeffModulusBitSizes {
		p := pools[b][idx[b]]
		idx[b]++
		moduli[i] = ring.NewModulus(p)
	}

	return rlwe.NewEncryptParameters(rlwe.CKKS, N, moduli)
}

// NewContext builds CKKS parameters for (N, coeffModulusBitSizes) and the
// Context (modulus chain, NTT tables, base converter) derived from them,
// validated against secLevel.
func NewContext(N int, coeffModulusBitSizes []int, secLevel ring.SecurityLevel) (*rlwe.Context, *rlwe.EncryptParameters, error) {
	parms, err := NewParameters(N, coeffModulusBitSizes)
	if err != nil {
		return nil, nil, err
	}
	ctx, err := rlwe.NewContext(parms, secLevel)
	if err != nil {
		return nil, nil, err
	}
	return ctx, parms, nil
}
