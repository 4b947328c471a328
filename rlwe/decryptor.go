package rlwe

import (
	"fmt"

	"github.com/latticeforge/ckks/ring"
)

// Decryptor evaluates the secret-key inner product of a ciphertext and
// composes the result back into an NTT-form plaintext.
type Decryptor struct {
	ctx *Context
	sk  *SecretKey

	// skPowers[i] caches s^(i+2) at the full key-parms basis; level-L
	// ciphertexts use the first L*N words of each cached power, since
	// every ctxdata's basis is a prefix of the key-parms basis.
	skPowers [][]uint64
}

// NewDecryptor binds a Decryptor to ctx and sk.
func NewDecryptor(ctx *Context, sk *SecretKey) *Decryptor {
	return &Decryptor{ctx: ctx, sk: sk}
}

// power returns s^k at the full key-parms basis, computing and caching
// any missing intermediate powers by dyadic product.
func (d *Decryptor) power(k int) []uint64 {
	if k == 1 {
		return d.sk.Data
	}
	keyData := d.ctx.KeyCtxData()
	N := keyData.Parms.N()
	fullBasis := ring.Basis(keyData.Parms.CoeffModulus())

	for len(d.skPowers) < k-1 {
		var prev []uint64
		if len(d.skPowers) == 0 {
			prev = d.sk.Data
		} else {
			prev = d.skPowers[len(d.skPowers)-1]
		}
		next := make([]uint64, len(fullBasis)*N)
		fullBasis.DyadicProduct(N, prev, d.sk.Data, next)
		d.skPowers = append(d.skPowers, next)
	}
	return d.skPowers[k-2]
}

// Decrypt evaluates out = c0 + sum_{i=1}^{k-1} c_i * s^i (coefficientwise
// modular dyadic product and add, per prime) and returns the result as an
// NTT-form plaintext carrying the ciphertext's ParmsId and scale. The
// result is left in NTT form; the decoder expects it that way.
func (d *Decryptor) Decrypt(ct *Ciphertext) (*Plaintext, error) {
	if !ct.IsNTTForm() {
		return nil, fmt.Errorf("rlwe: cannot decrypt a non-NTT-form ciphertext")
	}
	data := d.ctx.GetCtxData(ct.ParmsId())
	if data == nil {
		return nil, fmt.Errorf("rlwe: parms_id is not valid for this context")
	}
	N := data.Parms.N()
	L := len(data.Parms.CoeffModulus())
	basis := ring.Basis(data.Parms.CoeffModulus())

	out := append([]uint64(nil), ct.At(0)...)
	tmp := make([]uint64, L*N)
	for i := 1; i < ct.Size(); i++ {
		skPow := d.power(i)[:L*N]
		basis.DyadicProduct(N, ct.At(i), skPow, tmp)
		basis.Add(N, out, tmp, out)
	}

	pt := NewPlaintext()
	pt.Data = out
	pt.SetParmsId(ct.ParmsId())
	pt.SetScale(ct.Scale())
	return pt, nil
}
