package ring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasisNTTRoundTrip(t *testing.T) {
	N := 256
	primes, err := FindPrimes(N, 40, 2)
	require.NoError(t, err)
	basis := Basis{NewModulus(primes[0]), NewModulus(primes[1])}

	tables := make([]*NTTTable, len(basis))
	for i, q := range basis {
		tbl, err := GenNTTTable(N, q)
		require.NoError(t, err)
		tables[i] = tbl
	}

	r := rand.New(rand.NewSource(5))
	a := make([]uint64, len(basis)*N)
	for i, q := range basis {
		off := i * N
		for j := 0; j < N; j++ {
			a[off+j] = r.Uint64() % q.Uint64()
		}
	}
	want := append([]uint64(nil), a...)

	basis.NTT(N, tables, a)
	basis.InvNTT(N, tables, a)

	require.Equal(t, want, a)
}

func TestBasisAddSubNegateDyadicProduct(t *testing.T) {
	N := 8
	primes, err := FindPrimes(N, 30, 2)
	require.NoError(t, err)
	basis := Basis{NewModulus(primes[0]), NewModulus(primes[1])}

	r := rand.New(rand.NewSource(6))
	a := make([]uint64, len(basis)*N)
	b := make([]uint64, len(basis)*N)
	for i, q := range basis {
		off := i * N
		for j := 0; j < N; j++ {
			a[off+j] = r.Uint64() % q.Uint64()
			b[off+j] = r.Uint64() % q.Uint64()
		}
	}

	sum := make([]uint64, len(a))
	basis.Add(N, a, b, sum)
	back := make([]uint64, len(a))
	basis.Sub(N, sum, b, back)
	require.Equal(t, a, back)

	neg := make([]uint64, len(a))
	basis.Negate(N, a, neg)
	zero := make([]uint64, len(a))
	basis.Add(N, a, neg, zero)
	for i, q := range basis {
		off := i * N
		for j := 0; j < N; j++ {
			require.Equal(t, uint64(0), zero[off+j], "prime %d", q.Uint64())
		}
	}

	prod := make([]uint64, len(a))
	basis.DyadicProduct(N, a, b, prod)
	for i, q := range basis {
		off := i * N
		for j := 0; j < N; j++ {
			require.Equal(t, q.MulMod(a[off+j], b[off+j]), prod[off+j])
		}
	}
}
