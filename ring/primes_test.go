package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// FindPrimes(N=8192, bits=60, count=2) returns two distinct 60-bit
// primes, each congruent to 1 mod 16384.
func TestFindPrimesDistinctAndCongruent(t *testing.T) {
	primes, err := FindPrimes(8192, 60, 2)
	require.NoError(t, err)
	require.Len(t, primes, 2)
	require.NotEqual(t, primes[0], primes[1])

	for _, p := range primes {
		require.True(t, IsPrime(p))
		require.Equal(t, 60, NewModulus(p).BitCount())
		require.Equal(t, uint64(1), p%16384)
	}
}

func TestFindPrimesExhaustionFails(t *testing.T) {
	_, err := FindPrimes(16, 3, 100)
	require.Error(t, err)
}

func TestMaxBitCountSecurityTable(t *testing.T) {
	require.Equal(t, 218, MaxBitCount(8192, Security128Classical))
	require.Equal(t, 0, MaxBitCount(123, Security128Classical))
	require.Greater(t, MaxBitCount(8192, SecurityNone), 600)
}
