package rlwe

import (
	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/utils/buffer"
	"github.com/latticeforge/ckks/utils/sampling"
)

// SecretKey wraps a Plaintext holding the NTT-form ternary secret at the
// key-parms ParmsId.
type SecretKey struct {
	*Plaintext
}

// PublicKey wraps a two-polynomial Ciphertext (c0, c1) at the key-parms
// ParmsId, produced by encrypting zero symmetrically under the secret key.
type PublicKey struct {
	*Ciphertext
}

// KSwitchKeys is a list of lists of PublicKey at the key-parms ParmsId,
// the shape relinearization and Galois keys share. No evaluator in this
// library consumes them yet; the type and its serialization exist so the
// format is not broken once one is added.
type KSwitchKeys struct {
	Keys [][]PublicKey
}

// KeyGenerator draws secret and public keys for a Context using a single
// entropy Source.
type KeyGenerator struct {
	ctx *Context
	src *sampling.Source
}

// NewKeyGenerator binds a KeyGenerator to ctx, drawing randomness from src.
func NewKeyGenerator(ctx *Context, src *sampling.Source) *KeyGenerator {
	return &KeyGenerator{ctx: ctx, src: src}
}

// GenSecretKey samples a ternary secret polynomial over the key-parms
// basis, NTT-transforms it, and returns it tagged with the key-parms
// ParmsId and scale 1.0.
func (kg *KeyGenerator) GenSecretKey() *SecretKey {
	data := kg.ctx.KeyCtxData()
	N := data.Parms.N()
	basis := ring.Basis(data.Parms.CoeffModulus())

	buf := make([]uint64, len(basis)*N)
	(ring.TernarySampler{Basis: basis, N: N}).Sample(kg.src, buf)
	basis.NTT(N, data.NTTTables, buf)

	pt := NewPlaintext()
	pt.Data = buf
	pt.SetParmsId(data.Parms.ParmsId())
	pt.SetScale(1.0)
	return &SecretKey{pt}
}

// GenPublicKey returns a public key for sk: an asymmetric-looking
// ciphertext that is actually an encryption of zero under the symmetric
// construction (public c1 = uniform a, c0 = -(a*s+e)).
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) *PublicKey {
	data := kg.ctx.KeyCtxData()
	ct := kg.encryptZeroSymmetric(data.Parms.ParmsId(), sk)
	return &PublicKey{ct}
}

// encryptZeroSymmetric draws a = uniform, e = centered-normal and returns
// the NTT-form ciphertext (c0, c1) = (-(a*s+e), a) at id, scale 1.0.
func (kg *KeyGenerator) encryptZeroSymmetric(id ParmsId, sk *SecretKey) *Ciphertext {
	data := kg.ctx.GetCtxData(id)
	N := data.Parms.N()
	basis := ring.Basis(data.Parms.CoeffModulus())

	ct := NewCiphertext()
	if err := ct.Resize(kg.ctx, id, 2); err != nil {
		panic(err)
	}
	ct.isNTTForm = true
	ct.scale = 1.0

	c1 := ct.At(1)
	(ring.UniformSampler{Basis: basis, N: N}).Sample(kg.src, c1)

	e := make([]uint64, len(basis)*N)
	(ring.GaussianSampler{Basis: basis, N: N}).Sample(kg.src, e)
	basis.NTT(N, data.NTTTables, e)

	as := make([]uint64, len(basis)*N)
	basis.DyadicProduct(N, c1, sk.Data, as)

	c0 := ct.At(0)
	basis.Add(N, as, e, c0)
	basis.Negate(N, c0, c0)

	return ct
}

// Save serializes the key list as an outer count, then per entry an inner
// count followed by each public key's own serialization.
func (ks *KSwitchKeys) Save(w buffer.Writer) (int64, error) {
	var total int64
	n, err := buffer.WriteInt(w, len(ks.Keys))
	total += n
	if err != nil {
		return total, err
	}
	for _, inner := range ks.Keys {
		n, err = buffer.WriteInt(w, len(inner))
		total += n
		if err != nil {
			return total, err
		}
		for i := range inner {
			n, err = inner[i].Save(w)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Load deserializes a key list written by Save, replacing ks's contents.
func (ks *KSwitchKeys) Load(r buffer.Reader) (int64, error) {
	var total int64
	var outer int
	n, err := buffer.ReadInt(r, &outer)
	total += n
	if err != nil {
		return total, err
	}
	keys := make([][]PublicKey, outer)
	for k := range keys {
		var count int
		n, err = buffer.ReadInt(r, &count)
		total += n
		if err != nil {
			return total, err
		}
		inner := make([]PublicKey, count)
		for i := range inner {
			n, err = inner[i].Load(r)
			total += n
			if err != nil {
				return total, err
			}
		}
		keys[k] = inner
	}
	ks.Keys = keys
	return total, nil
}

// Save serializes a secret key as the save of its underlying plaintext.
func (sk *SecretKey) Save(w buffer.Writer) (int64, error) { return sk.Plaintext.Save(w) }

// Load deserializes a secret key from the save of its underlying plaintext.
func (sk *SecretKey) Load(r buffer.Reader) (int64, error) {
	if sk.Plaintext == nil {
		sk.Plaintext = NewPlaintext()
	}
	return sk.Plaintext.Load(r)
}

// Save serializes a public key as the save of its underlying ciphertext.
func (pk *PublicKey) Save(w buffer.Writer) (int64, error) { return pk.Ciphertext.Save(w) }

// Load deserializes a public key from the save of its underlying ciphertext.
func (pk *PublicKey) Load(r buffer.Reader) (int64, error) {
	if pk.Ciphertext == nil {
		pk.Ciphertext = NewCiphertext()
	}
	return pk.Ciphertext.Load(r)
}
