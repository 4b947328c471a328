package rlwe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/ckks/ring"
)

func smallContext(t *testing.T) (*Context, ParmsId) {
	t.Helper()
	parms := buildParms(t, 64, []int{30, 30})
	ctx, err := NewContext(parms, ring.SecurityNone)
	require.NoError(t, err)
	return ctx, ctx.KeyCtxData().Parms.ParmsId()
}

func TestCiphertextResizeLayout(t *testing.T) {
	ctx, id := smallContext(t)
	ct := NewCiphertext()
	require.NoError(t, ct.Resize(ctx, id, 3))

	N := 64
	L := 2
	require.Equal(t, 3, ct.Size())
	require.Equal(t, N, ct.PolyModulusDegree())
	require.Equal(t, L, ct.CoeffModCount())
	require.Len(t, ct.Data, 3*L*N)

	for j := 0; j < 3; j++ {
		require.Len(t, ct.At(j), L*N)
	}
	require.Panics(t, func() { ct.At(3) })
}

func TestCiphertextResizeRejectsOutOfRangeSize(t *testing.T) {
	ctx, id := smallContext(t)
	ct := NewCiphertext()
	require.Error(t, ct.Resize(ctx, id, 1))
	require.Error(t, ct.Resize(ctx, id, MaxCiphertextSizeCap+1))
}

func TestCiphertextReserveKeepsSizeAndAvoidsRealloc(t *testing.T) {
	ctx, id := smallContext(t)
	ct := NewCiphertext()
	require.NoError(t, ct.Resize(ctx, id, 2))

	require.NoError(t, ct.Reserve(ctx, id, 5))
	require.Equal(t, 2, ct.Size())
	require.GreaterOrEqual(t, cap(ct.Data), 5*2*64)

	before := cap(ct.Data)
	require.NoError(t, ct.Resize(ctx, id, 5))
	require.Equal(t, before, cap(ct.Data))

	// Requests past the maximum polynomial count are clamped, not rejected.
	require.NoError(t, ct.Reserve(ctx, id, MaxCiphertextSizeCap+10))
}

func TestCiphertextSaveLoadRoundTrip(t *testing.T) {
	ctx, id := smallContext(t)
	ct := NewCiphertext()
	require.NoError(t, ct.Resize(ctx, id, 2))
	for i := range ct.Data {
		ct.Data[i] = uint64(i)
	}
	ct.SetIsNTTForm(true)
	ct.SetScale(1 << 30)

	var buf bytes.Buffer
	_, err := ct.Save(&buf)
	require.NoError(t, err)

	loaded := NewCiphertext()
	_, err = loaded.Load(&buf)
	require.NoError(t, err)

	require.Equal(t, ct.Data, loaded.Data)
	require.Equal(t, ct.ParmsId(), loaded.ParmsId())
	require.Equal(t, ct.IsNTTForm(), loaded.IsNTTForm())
	require.Equal(t, ct.Size(), loaded.Size())
	require.Equal(t, ct.PolyModulusDegree(), loaded.PolyModulusDegree())
	require.Equal(t, ct.CoeffModCount(), loaded.CoeffModCount())
	require.Equal(t, ct.Scale(), loaded.Scale())
}
