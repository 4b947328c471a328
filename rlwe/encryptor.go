package rlwe

import (
	"fmt"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/utils/sampling"
)

// Encryptor turns an NTT-form Plaintext into a fresh Ciphertext under a
// PublicKey, drawing randomness from a Source.
type Encryptor struct {
	ctx *Context
	pk  *PublicKey
	src *sampling.Source
}

// NewEncryptor binds an Encryptor to ctx and pk, drawing randomness from src.
func NewEncryptor(ctx *Context, pk *PublicKey, src *sampling.Source) *Encryptor {
	return &Encryptor{ctx: ctx, pk: pk, src: src}
}

// Encrypt produces a fresh ciphertext for pt: an asymmetric zero
// encryption at pt's ParmsId, with pt's RNS coefficients added into the
// first polynomial and pt's scale copied across.
func (e *Encryptor) Encrypt(pt *Plaintext) (*Ciphertext, error) {
	if !pt.IsNTTForm() {
		return nil, fmt.Errorf("rlwe: cannot encrypt a non-NTT-form plaintext")
	}
	id := pt.ParmsId()
	ct, err := e.encryptZero(id)
	if err != nil {
		return nil, err
	}
	data := e.ctx.GetCtxData(id)
	basis := ring.Basis(data.Parms.CoeffModulus())
	N := data.Parms.N()
	c0 := ct.At(0)
	basis.Add(N, c0, pt.Data, c0)
	ct.scale = pt.scale
	return ct, nil
}

// encryptZero produces a zero encryption at id. When id sits below
// key-parms in the chain, a zero is first produced at key-parms via
// encryptZeroAsymmetric and then modulus-switched down to id one prime
// at a time, each step applying the base converter's floor-last-modulus
// NTT variant to every polynomial.
func (e *Encryptor) encryptZero(id ParmsId) (*Ciphertext, error) {
	target := e.ctx.GetCtxData(id)
	if target == nil {
		return nil, fmt.Errorf("rlwe: parms_id is not valid for this context")
	}

	keyData := e.ctx.KeyCtxData()
	ct := e.encryptZeroAsymmetric(keyData.Parms.ParmsId())

	cur := keyData
	for cur.Parms.ParmsId() != id {
		next := e.ctx.Next(cur)
		if next == nil {
			return nil, fmt.Errorf("rlwe: parms_id not reachable from key parms by modulus switching")
		}
		for j := 0; j < ct.Size(); j++ {
			cur.BaseConverter.FloorLastModulusNTTInplace(ct.At(j), cur.NTTTables)
		}
		ct.dropLastModulus()
		ct.parmsId = next.Parms.ParmsId()
		cur = next
	}
	return ct, nil
}

// encryptZeroAsymmetric samples u ternary (NTT form), then
// c_j = u*pk_j + e_j for j in {0,1}, e_j drawn from the centered normal
// distribution and NTT-transformed to match the target (always NTT) form.
func (e *Encryptor) encryptZeroAsymmetric(id ParmsId) *Ciphertext {
	data := e.ctx.GetCtxData(id)
	N := data.Parms.N()
	basis := ring.Basis(data.Parms.CoeffModulus())

	u := make([]uint64, len(basis)*N)
	(ring.TernarySampler{Basis: basis, N: N}).Sample(e.src, u)
	basis.NTT(N, data.NTTTables, u)

	ct := NewCiphertext()
	if err := ct.Resize(e.ctx, id, 2); err != nil {
		panic(err)
	}
	ct.isNTTForm = true
	ct.scale = 1.0

	for j := 0; j < 2; j++ {
		prod := make([]uint64, len(basis)*N)
		basis.DyadicProduct(N, u, e.pk.At(j), prod)

		ej := make([]uint64, len(basis)*N)
		(ring.GaussianSampler{Basis: basis, N: N}).Sample(e.src, ej)
		basis.NTT(N, data.NTTTables, ej)

		basis.Add(N, prod, ej, ct.At(j))
	}
	return ct
}
