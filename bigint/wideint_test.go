package bigint

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func toBig128(v Uint128) *big.Int {
	hi := new(big.Int).Lsh(new(big.Int).SetUint64(v[1]), 64)
	return hi.Add(hi, new(big.Int).SetUint64(v[0]))
}

func toBig192(v Uint192) *big.Int {
	acc := new(big.Int).SetUint64(v[2])
	acc.Lsh(acc, 64)
	acc.Add(acc, new(big.Int).SetUint64(v[1]))
	acc.Lsh(acc, 64)
	acc.Add(acc, new(big.Int).SetUint64(v[0]))
	return acc
}

func TestMul64AgainstBig(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 256; i++ {
		a, b := r.Uint64(), r.Uint64()
		got := toBig128(Mul64(a, b))
		want := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		require.Equal(t, want, got)
	}
}

func TestAdd128Sub128RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 256; i++ {
		a := Uint128{r.Uint64(), r.Uint64()}
		b := Uint128{r.Uint64(), r.Uint64()}
		sum, _ := Add128(a, b)
		back, _ := Sub128(sum, b)
		require.Equal(t, a, back)
	}
}

func TestMul128By64To192(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 256; i++ {
		a := Uint128{r.Uint64(), r.Uint64()}
		b := r.Uint64()
		got := toBig192(Mul128By64To192(a, b))
		want := new(big.Int).Mul(toBig128(a), new(big.Int).SetUint64(b))
		require.Equal(t, want, got)
	}
}

func TestDivRem192By64(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 256; i++ {
		num := Uint192{r.Uint64(), r.Uint64(), r.Uint64() >> 1}
		denom := r.Uint64()>>1 + 1

		q, rem := DivRem192By64(num, denom)

		wantQ, wantR := new(big.Int).QuoRem(toBig192(num), new(big.Int).SetUint64(denom), new(big.Int))
		require.Equal(t, wantQ, toBig192(q))
		require.Equal(t, wantR.Uint64(), rem)
	}
}

func TestDivRem128By64(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 256; i++ {
		num := Uint128{r.Uint64(), r.Uint64()}
		denom := r.Uint64()>>1 + 1

		q, rem := DivRem128By64(num, denom)

		wantQ, wantR := new(big.Int).QuoRem(toBig128(num), new(big.Int).SetUint64(denom), new(big.Int))
		require.Equal(t, wantQ, toBig128(q))
		require.Equal(t, wantR.Uint64(), rem)
	}
}

func TestLshRsh192RoundTrip(t *testing.T) {
	v := Uint192{0x1, 0x2, 0x3}
	for n := uint(0); n < 192; n++ {
		shifted := Lsh192(v, n)
		back := Rsh192(shifted, n)
		// Bits shifted past the top word are lost, so the round trip keeps
		// only the low 192-n bits of v.
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 192-n), big.NewInt(1))
		want := new(big.Int).And(toBig192(v), mask)
		require.Equal(t, want, toBig192(back))
	}
}

func TestCmp128And192(t *testing.T) {
	require.Equal(t, 0, Cmp128(Uint128{1, 2}, Uint128{1, 2}))
	require.Equal(t, -1, Cmp128(Uint128{1, 2}, Uint128{2, 2}))
	require.Equal(t, 1, Cmp128(Uint128{1, 3}, Uint128{1, 2}))

	require.Equal(t, 0, Cmp192(Uint192{1, 2, 3}, Uint192{1, 2, 3}))
	require.Equal(t, -1, Cmp192(Uint192{1, 2, 3}, Uint192{1, 2, 4}))
	require.True(t, IsZero192(Uint192{}))
	require.False(t, IsZero192(Uint192{0, 0, 1}))
}
