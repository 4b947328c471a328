package ring

import "math/bits"

var smallPrimeFactors = []uint64{2, 3, 5, 7, 11, 13}

// IsPrime reports whether q is prime, sieving small factors first and
// falling back to 40 rounds of Miller-Rabin for the rest.
func IsPrime(q uint64) bool {
	if q < 2 {
		return false
	}
	for _, p := range smallPrimeFactors {
		if q == p {
			return true
		}
		if q%p == 0 {
			return false
		}
	}
	return millerRabin(q, 40)
}

// millerRabin runs rounds deterministic-seeded witnesses of the
// Miller-Rabin primality test against n.
func millerRabin(n uint64, rounds int) bool {
	if n < 4 {
		return n == 2 || n == 3
	}
	if n%2 == 0 {
		return false
	}

	// Write n-1 = d * 2^r with d odd.
	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}

	// Deterministic witness sequence: the first 40 primes, one per round.
	// The first twelve alone already decide primality for every 64-bit n.
	witnesses := []uint64{
		2, 3, 5, 7, 11, 13, 17, 19, 23, 29,
		31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
		73, 79, 83, 89, 97, 101, 103, 107, 109, 113,
		127, 131, 137, 139, 149, 151, 157, 163, 167, 173,
	}

	count := 0
	for _, a := range witnesses {
		if count >= rounds {
			break
		}
		if a%n == 0 {
			continue
		}
		if !millerRabinWitness(n, d, r, a) {
			return false
		}
		count++
	}
	return true
}

func millerRabinWitness(n, d uint64, r int, a uint64) bool {
	x := expModGeneric(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for i := 0; i < r-1; i++ {
		x = mulModGeneric(x, x, n)
		if x == n-1 {
			return true
		}
	}
	return false
}

// expModGeneric computes base^exp mod n without constructing a Modulus,
// since n's primality has not yet been established when this is called.
func expModGeneric(base, exp, n uint64) uint64 {
	result := uint64(1) % n
	base %= n
	for exp > 0 {
		if exp&1 == 1 {
			result = mulModGeneric(result, base, n)
		}
		base = mulModGeneric(base, base, n)
		exp >>= 1
	}
	return result
}

// mulModGeneric multiplies a*b mod n without requiring a cached Modulus,
// used while a candidate n's own Modulus/primality is still being decided.
func mulModGeneric(a, b, n uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo % n
	}
	_, rem := bits.Div64(hi%n, lo, n)
	return rem
}
