package ckks

import (
	"fmt"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/rlwe"
	"github.com/latticeforge/ckks/utils/sampling"
	"github.com/latticeforge/ckks/utils/structs"
)

// Engine bundles a Context, an Encoder over it, and a caller-supplied
// entropy Source into the single entrypoint surface a client program
// actually needs: build once, then Encrypt/Decrypt/Encode/Decode freely.
type Engine struct {
	Context *rlwe.Context
	Parms   *rlwe.EncryptParameters
	Encoder *Encoder
	Source  *sampling.Source
}

// NewEngine builds a CKKS context for ring degree N and the given
// coefficient-modulus bit sizes (conventionally [60, s, s, ..., 60] with
// s repeated once per multiplicative level), validated against secLevel,
// and wires an Encoder and a fresh crypto/rand-backed Source to it.
func NewEngine(N int, coeffModulusBitSizes []int, secLevel ring.SecurityLevel) (*Engine, error) {
	ctx, parms, err := NewContext(N, coeffModulusBitSizes, secLevel)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Context: ctx,
		Parms:   parms,
		Encoder: NewEncoder(ctx),
		Source:  sampling.NewSource(),
	}, nil
}

// NewSeededEngine builds an Engine identical to NewEngine but draws all
// randomness (keys, noise, future asymmetric encryptions) from a
// ChaCha20-stream source deterministically derived from seed. This exists
// solely to reproduce fixed test vectors; production callers must use
// NewEngine, whose Source is backed by a CSPRNG.
func NewSeededEngine(N int, coeffModulusBitSizes []int, secLevel ring.SecurityLevel, seed [32]byte) (*Engine, error) {
	ctx, parms, err := NewContext(N, coeffModulusBitSizes, secLevel)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Context: ctx,
		Parms:   parms,
		Encoder: NewEncoder(ctx),
		Source:  sampling.NewSeededSource(seed),
	}, nil
}

// Slots returns the number of independent plaintext slots, N/2.
func (e *Engine) Slots() int { return e.Encoder.Slots() }

// KeyPair is the secret/public key pair an Engine caller needs to
// encrypt and decrypt. Generated at the engine's key-parms level.
type KeyPair struct {
	Secret *rlwe.SecretKey
	Public *rlwe.PublicKey
}

// GenKeyPair draws a fresh ternary secret key and its corresponding
// public key using the engine's Source.
func (e *Engine) GenKeyPair() *KeyPair {
	kg := rlwe.NewKeyGenerator(e.Context, e.Source)
	sk := kg.GenSecretKey()
	pk := kg.GenPublicKey(sk)
	return &KeyPair{Secret: sk, Public: pk}
}

// Encrypt encodes values (length <= Slots()) at the engine's first
// parms level (the data level with the most primes, i.e. the largest
// depth budget) and the given scale, then encrypts the result under pk.
// This is the common case: fresh ciphertexts enter the chain at full depth.
func (e *Engine) Encrypt(values []complex128, pk *rlwe.PublicKey, scale float64) (*rlwe.Ciphertext, error) {
	id := e.Context.FirstCtxData().Parms.ParmsId()
	pt, err := e.Encoder.Encode(values, id, scale)
	if err != nil {
		return nil, fmt.Errorf("ckks: encode: %w", err)
	}
	enc := rlwe.NewEncryptor(e.Context, pk, e.Source)
	ct, err := enc.Encrypt(pt)
	if err != nil {
		return nil, fmt.Errorf("ckks: encrypt: %w", err)
	}
	return ct, nil
}

// EncryptReal is a convenience wrapper for real-valued input: each entry
// is encrypted as a zero-imaginary complex slot.
func (e *Engine) EncryptReal(values []float64, pk *rlwe.PublicKey, scale float64) (*rlwe.Ciphertext, error) {
	cv := make([]complex128, len(values))
	for i, v := range values {
		cv[i] = complex(v, 0)
	}
	return e.Encrypt(cv, pk, scale)
}

// Decrypt recovers the complex slot vector (length Slots()) encrypted in ct.
func (e *Engine) Decrypt(ct *rlwe.Ciphertext, sk *rlwe.SecretKey) ([]complex128, error) {
	dec := rlwe.NewDecryptor(e.Context, sk)
	pt, err := dec.Decrypt(ct)
	if err != nil {
		return nil, fmt.Errorf("ckks: decrypt: %w", err)
	}
	return e.Encoder.Decode(pt)
}

// DecryptReal is the real-valued counterpart of EncryptReal: it decrypts
// and returns only the real part of each slot.
func (e *Engine) DecryptReal(ct *rlwe.Ciphertext, sk *rlwe.SecretKey) ([]float64, error) {
	cv, err := e.Decrypt(ct, sk)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cv))
	for i, v := range cv {
		out[i] = real(v)
	}
	return out, nil
}

// EncryptBatch encrypts each row independently under pk at scale, returning
// them as a structs.Vector so a caller gets the same Size/clone-idiom
// collection type used elsewhere for batches of homomorphic objects.
func (e *Engine) EncryptBatch(rows [][]complex128, pk *rlwe.PublicKey, scale float64) (structs.Vector[*rlwe.Ciphertext], error) {
	out := make(structs.Vector[*rlwe.Ciphertext], len(rows))
	for i, row := range rows {
		ct, err := e.Encrypt(row, pk, scale)
		if err != nil {
			return nil, fmt.Errorf("ckks: encrypt batch row %d: %w", i, err)
		}
		out[i] = ct
	}
	return out, nil
}

// DecryptBatch decrypts every ciphertext in cts under sk, in order.
func (e *Engine) DecryptBatch(cts structs.Vector[*rlwe.Ciphertext], sk *rlwe.SecretKey) ([][]complex128, error) {
	out := make([][]complex128, cts.Size())
	for i, ct := range cts {
		v, err := e.Decrypt(ct, sk)
		if err != nil {
			return nil, fmt.Errorf("ckks: decrypt batch row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Destroy releases the engine's owned state. The context and its chain
// are otherwise immutable and safe to keep sharing by reference; this
// only drops this Engine's own handle on them.
func (e *Engine) Destroy() {
	e.Context = nil
	e.Parms = nil
	e.Encoder = nil
	e.Source = nil
}
