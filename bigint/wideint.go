// Package bigint implements the fixed-width wide-integer arithmetic that the
// modular-reduction layer builds on: 128- and 192-bit values represented as
// little-endian arrays of uint64 words, with add/sub/shift/multiply/divide
// primitives that avoid allocating a general-purpose big integer for every
// reduction. math/bits supplies the carry-propagating primitives that a
// schoolbook multiply would otherwise hand-roll.
package bigint

import (
	"fmt"
	"math/bits"
)

// Uint128 is a 128-bit unsigned integer stored as [low, high] 64-bit words.
type Uint128 [2]uint64

// Uint192 is a 192-bit unsigned integer stored as [low, mid, high] 64-bit words.
type Uint192 [3]uint64

// Mul64 computes the full 128-bit product of two 64-bit words.
func Mul64(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{lo, hi}
}

// Add128 adds two 128-bit values and returns the sum along with the carry out.
func Add128(a, b Uint128) (sum Uint128, carry uint64) {
	var c0, c1 uint64
	sum[0], c0 = bits.Add64(a[0], b[0], 0)
	sum[1], c1 = bits.Add64(a[1], b[1], c0)
	return sum, c1
}

// Sub128 subtracts b from a and returns the difference along with the borrow out.
func Sub128(a, b Uint128) (diff Uint128, borrow uint64) {
	var b0, b1 uint64
	diff[0], b0 = bits.Sub64(a[0], b[0], 0)
	diff[1], b1 = bits.Sub64(a[1], b[1], b0)
	return diff, b1
}

// Add192 adds two 192-bit values, discarding any carry out of the top word.
func Add192(a, b Uint192) (sum Uint192) {
	var c0, c1 uint64
	sum[0], c0 = bits.Add64(a[0], b[0], 0)
	sum[1], c1 = bits.Add64(a[1], b[1], c0)
	sum[2], _ = bits.Add64(a[2], b[2], c1)
	return sum
}

// Sub192 subtracts b from a, discarding any borrow out of the top word.
func Sub192(a, b Uint192) (diff Uint192) {
	var b0, b1 uint64
	diff[0], b0 = bits.Sub64(a[0], b[0], 0)
	diff[1], b1 = bits.Sub64(a[1], b[1], b0)
	diff[2], _ = bits.Sub64(a[2], b[2], b1)
	return diff
}

// Mul128By64To192 computes the 192-bit product of a 128-bit value and a 64-bit value.
func Mul128By64To192(a Uint128, b uint64) Uint192 {
	p0 := Mul64(a[0], b)
	p1 := Mul64(a[1], b)

	var out Uint192
	out[0] = p0[0]

	mid, carry := bits.Add64(p0[1], p1[0], 0)
	out[1] = mid
	out[2] = p1[1] + carry

	return out
}

// Lsh192 shifts v left by n bits, 0 <= n < 192. Bits shifted past the top word are lost.
func Lsh192(v Uint192, n uint) Uint192 {
	n %= 192
	words, bitsN := n/64, n%64
	var shifted [3]uint64
	for i := 2; i >= 0; i-- {
		src := i - int(words)
		if src < 0 {
			continue
		}
		lo := v[src] << bitsN
		var hi uint64
		if bitsN > 0 && src-1 >= 0 {
			hi = v[src-1] >> (64 - bitsN)
		}
		shifted[i] = lo | hi
	}
	return shifted
}

// Rsh192 shifts v right by n bits, 0 <= n < 192.
func Rsh192(v Uint192, n uint) Uint192 {
	n %= 192
	words, bitsN := n/64, n%64
	var shifted [3]uint64
	for i := 0; i < 3; i++ {
		src := i + int(words)
		if src > 2 {
			continue
		}
		lo := v[src] >> bitsN
		var hi uint64
		if bitsN > 0 && src+1 <= 2 {
			hi = v[src+1] << (64 - bitsN)
		}
		shifted[i] = lo | hi
	}
	return shifted
}

// Rsh128 shifts v right by n bits, 0 <= n < 128.
func Rsh128(v Uint128, n uint) Uint128 {
	n &= 127
	if n == 0 {
		return v
	}
	if n < 64 {
		return Uint128{
			(v[0] >> n) | (v[1] << (64 - n)),
			v[1] >> n,
		}
	}
	return Uint128{v[1] >> (n - 64), 0}
}

// Cmp192 compares two 192-bit values, returning -1, 0 or 1.
func Cmp192(a, b Uint192) int {
	for i := 2; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Cmp128 compares two 128-bit values, returning -1, 0 or 1.
func Cmp128(a, b Uint128) int {
	if a[1] != b[1] {
		if a[1] > b[1] {
			return 1
		}
		return -1
	}
	if a[0] != b[0] {
		if a[0] > b[0] {
			return 1
		}
		return -1
	}
	return 0
}

// IsZero192 reports whether v is zero.
func IsZero192(v Uint192) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// DivRem192By64 divides a 192-bit dividend by a nonzero 64-bit divisor using
// shift-and-subtract long division, returning the 192-bit quotient and the
// 64-bit remainder. Division by zero panics: callers never construct a
// zero modulus (see ring.Modulus).
func DivRem192By64(numerator Uint192, denom uint64) (quotient Uint192, remainder uint64) {
	if denom == 0 {
		panic(fmt.Errorf("bigint: division by zero"))
	}

	var rem uint64
	var quot Uint192

	for i := 191; i >= 0; i-- {
		rem <<= 1
		word, bit := i/64, uint(i%64)
		if (numerator[word]>>bit)&1 == 1 {
			rem |= 1
		}
		if rem >= denom {
			rem -= denom
			qword, qbit := i/64, uint(i%64)
			quot[qword] |= 1 << qbit
		}
	}

	return quot, rem
}

// DivRem128By64 divides a 128-bit dividend by a nonzero 64-bit divisor.
// It uses bits.Div64 directly when the quotient is guaranteed to fit in 64
// bits (hi < denom), and falls back to long division otherwise.
func DivRem128By64(numerator Uint128, denom uint64) (quotient Uint128, remainder uint64) {
	if denom == 0 {
		panic(fmt.Errorf("bigint: division by zero"))
	}
	if numerator[1] < denom {
		q, r := bits.Div64(numerator[1], numerator[0], denom)
		return Uint128{q, 0}, r
	}

	var rem uint64
	var quot Uint128
	for i := 127; i >= 0; i-- {
		rem <<= 1
		word, bit := i/64, uint(i%64)
		if (numerator[word]>>bit)&1 == 1 {
			rem |= 1
		}
		if rem >= denom {
			rem -= denom
			qword, qbit := i/64, uint(i%64)
			quot[qword] |= 1 << qbit
		}
	}
	return quot, rem
}
