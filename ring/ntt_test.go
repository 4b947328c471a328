package ring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func genTestTable(t *testing.T, N, bits int) (*NTTTable, Modulus) {
	t.Helper()
	primes, err := FindPrimes(N, bits, 1)
	require.NoError(t, err)
	q := NewModulus(primes[0])
	table, err := GenNTTTable(N, q)
	require.NoError(t, err)
	return table, q
}

func TestPrimitiveRootOrder(t *testing.T) {
	for _, N := range []int{16, 64, 256} {
		table, q := genTestTable(t, N, 30)
		m := uint64(2 * N)

		require.Equal(t, uint64(1), q.Exp(table.Psi, m), "psi^2N must be 1 mod q")

		// 2N is a power of two; the only prime factor to check is 2.
		require.NotEqual(t, uint64(1), q.Exp(table.Psi, m/2), "psi must have exact order 2N")
	}
}

func TestForwardBackwardRoundTrip(t *testing.T) {
	for _, N := range []int{16, 64, 256, 1024} {
		table, q := genTestTable(t, N, 40)
		r := rand.New(rand.NewSource(int64(N)))

		a := make([]uint64, N)
		for i := range a {
			a[i] = r.Uint64() % q.Uint64()
		}
		want := append([]uint64(nil), a...)

		table.ForwardNormalize(a)
		table.BackwardNormalize(a)

		require.Equal(t, want, a, "N=%d", N)
	}
}

func TestBitReverseInvolution(t *testing.T) {
	for logN := 1; logN <= 10; logN++ {
		n := 1 << logN
		for x := 0; x < n; x++ {
			require.Equal(t, x, BitReverse(BitReverse(x, logN), logN))
		}
	}
}
