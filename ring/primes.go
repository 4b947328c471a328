package ring

import "fmt"

// SecurityLevel names a HomomorphicEncryption.org standard security target.
// None disables the check entirely.
type SecurityLevel int

const (
	SecurityNone SecurityLevel = iota
	Security128Classical
	Security192Classical
	Security256Classical
	Security128Quantum
	Security192Quantum
	Security256Quantum
)

// securityTable holds the largest allowed total coeff_modulus bit-count
// per ring degree, for a ternary secret, per the HomomorphicEncryption.org
// standard.
var securityTable = map[SecurityLevel]map[int]int{
	Security128Classical: {1024: 27, 2048: 54, 4096: 109, 8192: 218, 16384: 438, 32768: 881},
	Security192Classical: {1024: 19, 2048: 37, 4096: 75, 8192: 152, 16384: 305, 32768: 611},
	Security256Classical: {1024: 14, 2048: 29, 4096: 58, 8192: 118, 16384: 237, 32768: 476},
	Security128Quantum:   {1024: 25, 2048: 51, 4096: 101, 8192: 202, 16384: 411, 32768: 827},
	Security192Quantum:   {1024: 17, 2048: 35, 4096: 70, 8192: 141, 16384: 284, 32768: 571},
	Security256Quantum:   {1024: 13, 2048: 27, 4096: 54, 8192: 109, 16384: 220, 32768: 443},
}

// MaxBitCount returns the maximum total coefficient-modulus bit-count
// allowed for degree N at the given security level. It returns 0 for a
// degree not present in the standard table, and a very large value for
// SecurityNone (no limit enforced).
func MaxBitCount(N int, level SecurityLevel) int {
	if level == SecurityNone {
		return 1 << 30
	}
	table, ok := securityTable[level]
	if !ok {
		return 0
	}
	return table[N]
}

// FindPrimes returns count primes q such that q = 1 mod 2N and
// (1<<(bits-1)) < q < (1<<bits), searching downward from 2^bits - 2N + 1 in
// steps of 2N.
func FindPrimes(N int, bits int, count int) ([]uint64, error) {
	if bits < MinModulusBitCount || bits > MaxModulusBitCount {
		return nil, fmt.Errorf("ring: requested prime bit-size %d out of range [%d,%d]", bits, MinModulusBitCount, MaxModulusBitCount)
	}

	twoN := uint64(2 * N)
	lowerBound := uint64(1) << (bits - 1)
	upperBound := uint64(1) << bits

	factor := twoN
	candidate := upperBound - twoN + 1
	// Align candidate to 1 mod 2N, searching downward.
	if candidate > factor {
		candidate -= (candidate - 1) % factor
	}

	var found []uint64
	// candidate >= upperBound only when 2N > 2^bits wrapped the start value.
	for candidate > lowerBound && candidate < upperBound {
		if IsPrime(candidate) {
			found = append(found, candidate)
			if len(found) == count {
				return found, nil
			}
		}
		if candidate <= factor {
			break
		}
		candidate -= factor
	}

	return nil, fmt.Errorf("ring: prime search exhausted before finding %d primes of %d bits for N=%d", count, bits, N)
}
