package ring

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixed spot check: for q = 1099511480321 and
// z = 0x31e10_ed97d30f83258b4c, the Barrett reduction must equal
// 102273544150.
func TestBarrettReduce128SpotCheck(t *testing.T) {
	q := NewModulus(1099511480321)
	z, ok := new(big.Int).SetString("31e10ed97d30f83258b4c", 16)
	require.True(t, ok)

	mask64 := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(z, mask64).Uint64()
	hi := new(big.Int).Rsh(z, 64).Uint64()

	got := q.BarrettReduce128([2]uint64{lo, hi})
	require.Equal(t, uint64(102273544150), got)
}

func TestBarrettReduce128MatchesBigIntMod(t *testing.T) {
	primes := []uint64{1099511480321, 1152921504606748673, 4611686018427322369}
	r := rand.New(rand.NewSource(42))
	for _, p := range primes {
		q := NewModulus(p)
		qBig := new(big.Int).SetUint64(p)
		for i := 0; i < 128; i++ {
			lo, hi := r.Uint64(), r.Uint64()
			z := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
			z.Add(z, new(big.Int).SetUint64(lo))

			want := new(big.Int).Mod(z, qBig).Uint64()
			got := q.BarrettReduce128([2]uint64{lo, hi})
			require.Equal(t, want, got, "q=%d lo=%d hi=%d", p, lo, hi)
		}
	}
}

func TestModArithmeticLaws(t *testing.T) {
	q := NewModulus(1099511480321)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 256; i++ {
		a := r.Uint64() % q.Uint64()
		b := r.Uint64() % q.Uint64()

		require.Equal(t, q.AddMod(a, b), q.AddMod(b, a))
		require.Equal(t, a, q.SubMod(q.AddMod(a, b), b))
		require.Equal(t, uint64(0), q.AddMod(a, q.NegateMod(a)))

		if a != 0 {
			inv := q.Inverse(a)
			require.Equal(t, uint64(1), q.MulMod(a, inv))
		}
	}
}

func TestHalveModRoundTrip(t *testing.T) {
	q := NewModulus(1099511480321)
	r := rand.New(rand.NewSource(9))
	for i := 0; i < 256; i++ {
		a := r.Uint64() % q.Uint64()
		half := q.HalveMod(a)
		require.Equal(t, a, q.AddMod(half, half))
	}
}

func TestExpMatchesBigInt(t *testing.T) {
	q := NewModulus(1099511480321)
	qBig := new(big.Int).SetUint64(q.Uint64())
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 32; i++ {
		base := r.Uint64() % q.Uint64()
		exp := r.Uint64() % 1000

		want := new(big.Int).Exp(new(big.Int).SetUint64(base), new(big.Int).SetUint64(exp), qBig).Uint64()
		got := q.Exp(base, exp)
		require.Equal(t, want, got)
	}
}
