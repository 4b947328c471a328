// Package ring implements residue-number-system polynomial arithmetic over
// Z[x]/(x^N+1): word-sized prime moduli with Barrett-128 reduction, prime
// search and the HomomorphicEncryption.org security table, negacyclic NTT
// tables and transforms, and the uniform/Gaussian/ternary samplers that feed
// key and noise generation.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/latticeforge/ckks/bigint"
)

// MinModulusBitCount and MaxModulusBitCount bound the bit-length of a user
// supplied coefficient modulus prime. Internal moduli (the auxiliary base)
// may go up to maxInternalModulusBitCount, the widest prime the Barrett
// reduction supports.
const (
	MinModulusBitCount = 2
	MaxModulusBitCount = 60

	maxInternalModulusBitCount = 62
)

// Modulus is a word-sized prime q of at most 62 bits together with the
// precomputed data needed to reduce a 128-bit value modulo q without
// division: Barrett's const_ratio, floor(2^128/q) split into two 64-bit
// words plus the remainder 2^128 mod q. User-facing coefficient moduli are
// further restricted to MaxModulusBitCount during parameter validation.
type Modulus struct {
	value      uint64
	bitCount   int
	constRatio [3]uint64
	isPrime    bool
}

// NewModulus builds a Modulus from a prime candidate q. It panics if q is 0,
// 1, or too wide for Barrett reduction: the caller is expected to have
// selected q via FindPrimes or a fixed constant list, never arbitrary user
// input.
func NewModulus(q uint64) Modulus {
	if q == 0 || q == 1 {
		panic(fmt.Errorf("ring: modulus must be > 1, got %d", q))
	}
	bc := bits.Len64(q)
	if bc > maxInternalModulusBitCount {
		panic(fmt.Errorf("ring: modulus %d exceeds %d bits", q, maxInternalModulusBitCount))
	}

	m := Modulus{value: q, bitCount: bc}

	// const_ratio = floor(2^128/q), remainder 2^128 mod q, via 192-bit long
	// division of 2^128.
	numerator := bigint.Uint192{0, 0, 1}
	quotient, remainder64 := bigint.DivRem192By64(numerator, q)
	m.constRatio[0] = quotient[0]
	m.constRatio[1] = quotient[1]
	m.constRatio[2] = remainder64

	m.isPrime = IsPrime(q)

	return m
}

// Zero returns the distinguished zero Modulus, used only to mark an unused
// plain modulus slot in CKKS parameters.
func Zero() Modulus { return Modulus{} }

// Uint64 returns the modulus value.
func (m Modulus) Uint64() uint64 { return m.value }

// BitCount returns the bit-length of the modulus.
func (m Modulus) BitCount() int { return m.bitCount }

// IsPrime reports whether the modulus value is prime.
func (m Modulus) IsPrime() bool { return m.isPrime }

// ConstRatio returns the cached Barrett ratio.
func (m Modulus) ConstRatio() [3]uint64 { return m.constRatio }

// BarrettReduce128 reduces a 128-bit value modulo m, using the precomputed
// const_ratio: two 64x64->128 multiplies, two adds-with-carry and one
// conditional subtraction.
func (m Modulus) BarrettReduce128(input [2]uint64) uint64 {
	q := m.value
	cr := m.constRatio

	// Round 1.
	carry, _ := bits.Mul64(input[0], cr[0])
	hi0, lo0 := bits.Mul64(input[0], cr[1])
	tmp1, c := bits.Add64(lo0, carry, 0)
	tmp3 := hi0 + c

	// Round 2.
	hi1, lo1 := bits.Mul64(input[1], cr[0])
	_, c2 := bits.Add64(tmp1, lo1, 0)
	carry2 := hi1 + c2

	tmp1Final := input[1]*cr[1] + tmp3 + carry2

	tmp3Final := input[0] - tmp1Final*q
	if tmp3Final >= q {
		tmp3Final -= q
	}
	return tmp3Final
}

// BarrettReduce63 reduces an input of at most 63 bits modulo m using the
// high word of the const_ratio only.
func (m Modulus) BarrettReduce63(input uint64) uint64 {
	q := m.value
	hi, _ := bits.Mul64(input, m.constRatio[1])
	tmp := input - hi*q
	if tmp >= q {
		tmp -= q
	}
	return tmp
}

// MulMod computes a*b mod m via a full 128-bit product followed by Barrett-128 reduction.
func (m Modulus) MulMod(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return m.BarrettReduce128([2]uint64{lo, hi})
}

// AddMod computes (a+b) mod m, assuming a, b < m.
func (m Modulus) AddMod(a, b uint64) uint64 {
	s := a + b
	if s >= m.value || s < a {
		s -= m.value
	}
	return s
}

// SubMod computes (a-b) mod m, assuming a, b < m.
func (m Modulus) SubMod(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return m.value - b + a
}

// NegateMod computes (-a) mod m, assuming a < m.
func (m Modulus) NegateMod(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return m.value - a
}

// HalveMod computes (a/2) mod m, used by the inverse-NTT butterfly.
func (m Modulus) HalveMod(a uint64) uint64 {
	if a&1 == 0 {
		return a >> 1
	}
	sum := a + m.value
	return sum >> 1
}

// Reduce reduces an arbitrary uint64 input modulo m.
func (m Modulus) Reduce(a uint64) uint64 {
	if a < m.value {
		return a
	}
	return m.BarrettReduce128([2]uint64{a, 0})
}

// Exp computes base^exp mod m by square-and-multiply.
func (m Modulus) Exp(base, exp uint64) uint64 {
	result := uint64(1) % m.value
	base = m.Reduce(base)
	for exp > 0 {
		if exp&1 == 1 {
			result = m.MulMod(result, base)
		}
		base = m.MulMod(base, base)
		exp >>= 1
	}
	return result
}

// Inverse computes the modular inverse of a via the extended Euclidean
// algorithm. Panics if gcd(a, m) != 1.
func (m Modulus) Inverse(a uint64) uint64 {
	if a == 0 {
		panic(fmt.Errorf("ring: 0 has no modular inverse"))
	}
	g, x, _ := extendedGCD(int64(a), int64(m.value))
	if g != 1 {
		panic(fmt.Errorf("ring: %d has no inverse mod %d", a, m.value))
	}
	x %= int64(m.value)
	if x < 0 {
		x += int64(m.value)
	}
	return uint64(x)
}

func extendedGCD(a, b int64) (g, x, y int64) {
	old_r, r := a, b
	old_s, s := int64(1), int64(0)
	old_t, t := int64(0), int64(1)
	for r != 0 {
		q := old_r / r
		old_r, r = r, old_r-q*r
		old_s, s = s, old_s-q*s
		old_t, t = t, old_t-q*t
	}
	return old_r, old_s, old_t
}
