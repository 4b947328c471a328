// Package rlwe implements the scheme-agnostic substrate CKKS sits on: the
// parameter/ParmsId/context machinery, plaintext and ciphertext containers,
// key generation, and the generic zero-encryption and secret-key decryption
// primitives. The CKKS-specific encoder lives in the sibling ckks package.
package rlwe

import (
	"encoding/binary"
	"fmt"

	"github.com/latticeforge/ckks/ring"
	"golang.org/x/crypto/sha3"
)

// Scheme identifies the homomorphic scheme a set of parameters targets.
// Only CKKS is implemented; BFV exists solely as an enum value so that
// ParmsId derivation and the container layouts match the reference shape.
type Scheme uint8

const (
	CKKS Scheme = iota
	BFV
)

// Bounds on the parameter space a context will accept.
const (
	MinCoeffModulusCount = 1
	MaxCoeffModulusCount = 62
	MinPolyModulusDegree = 2
	MaxPolyModulusDegree = 32768
	MaxCiphertextSize    = 16
)

// ParmsId is a 256-bit fingerprint of an EncryptParameters value, computed
// by hashing the parameter tuple (scheme, N, q_1..q_L, plain_modulus) with
// SHA3-256. The all-zero value is reserved to mean "not NTT-form /
// uninitialized" and is produced here if and only if the hash genuinely
// collides with zero, which is treated as a construction error.
type ParmsId [4]uint64

// IsZero reports whether id is the reserved zero sentinel.
func (id ParmsId) IsZero() bool {
	return id == ParmsId{}
}

// EncryptParameters is an immutable-after-construction description of a
// CKKS parameter set: the scheme, ring degree, coefficient-modulus chain,
// and plain modulus (always zero for CKKS). Every setter recomputes the
// cached ParmsId.
type EncryptParameters struct {
	scheme       Scheme
	polyDegree   int
	coeffModulus []ring.Modulus
	plainModulus ring.Modulus
	parmsId      ParmsId
}

// NewEncryptParameters constructs an EncryptParameters for the given
// scheme, ring degree and coefficient-modulus chain. CKKS requires a zero
// plain modulus. The ParmsId is computed immediately.
func NewEncryptParameters(scheme Scheme, N int, coeffModulus []ring.Modulus) (*EncryptParameters, error) {
	if scheme != CKKS {
		return nil, fmt.Errorf("rlwe: unsupported scheme %d", scheme)
	}
	if len(coeffModulus) < MinCoeffModulusCount || len(coeffModulus) > MaxCoeffModulusCount {
		return nil, fmt.Errorf("rlwe: coeff_modulus count %d out of range [%d,%d]", len(coeffModulus), MinCoeffModulusCount, MaxCoeffModulusCount)
	}

	p := &EncryptParameters{
		scheme:       scheme,
		polyDegree:   N,
		coeffModulus: append([]ring.Modulus(nil), coeffModulus...),
		plainModulus: ring.Zero(),
	}
	if err := p.computeParmsId(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *EncryptParameters) computeParmsId() error {
	words := make([]uint64, 0, 2+len(p.coeffModulus)+1)
	words = append(words, uint64(p.scheme))
	words = append(words, uint64(p.polyDegree))
	for _, q := range p.coeffModulus {
		words = append(words, q.Uint64())
	}
	words = append(words, p.plainModulus.Uint64())

	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}

	digest := sha3.Sum256(buf)

	var id ParmsId
	for i := 0; i < 4; i++ {
		id[i] = binary.LittleEndian.Uint64(digest[i*8 : i*8+8])
	}

	if id.IsZero() {
		return fmt.Errorf("rlwe: parms_id collided with the reserved zero value")
	}

	p.parmsId = id
	return nil
}

// Scheme returns the scheme.
func (p *EncryptParameters) Scheme() Scheme { return p.scheme }

// N returns the polynomial-modulus degree.
func (p *EncryptParameters) N() int { return p.polyDegree }

// CoeffModulus returns the coefficient-modulus chain.
func (p *EncryptParameters) CoeffModulus() []ring.Modulus { return p.coeffModulus }

// PlainModulus returns the plain modulus (always the zero Modulus for CKKS).
func (p *EncryptParameters) PlainModulus() ring.Modulus { return p.plainModulus }

// ParmsId returns the cached 256-bit parameter fingerprint.
func (p *EncryptParameters) ParmsId() ParmsId { return p.parmsId }

// Clone returns a deep copy of p.
func (p *EncryptParameters) Clone() *EncryptParameters {
	cpy := *p
	cpy.coeffModulus = append([]ring.Modulus(nil), p.coeffModulus...)
	return &cpy
}

// dropLastModulus returns a clone of p with its last coefficient modulus
// removed and the ParmsId recomputed, used to build the modulus chain.
func (p *EncryptParameters) dropLastModulus() (*EncryptParameters, error) {
	if len(p.coeffModulus) <= 1 {
		return nil, fmt.Errorf("rlwe: cannot drop the last remaining modulus")
	}
	return NewEncryptParameters(p.scheme, p.polyDegree, p.coeffModulus[:len(p.coeffModulus)-1])
}
