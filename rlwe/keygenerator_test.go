package rlwe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/utils/sampling"
)

// Generate a SecretKey, inverse-NTT each residue, re-forward-NTT: the
// result must be bit-identical to the stored form.
func TestSecretKeyNTTIdempotence(t *testing.T) {
	ctx, _ := smallContext(t)
	kg := NewKeyGenerator(ctx, sampling.NewSeededSource([32]byte{9}))
	sk := kg.GenSecretKey()

	keyData := ctx.KeyCtxData()
	N := keyData.Parms.N()
	basis := ring.Basis(keyData.Parms.CoeffModulus())

	want := append([]uint64(nil), sk.Data...)

	basis.InvNTT(N, keyData.NTTTables, sk.Data)
	basis.NTT(N, keyData.NTTTables, sk.Data)

	require.Equal(t, want, sk.Data)
}

func TestGenPublicKeyShapeAndScale(t *testing.T) {
	ctx, id := smallContext(t)
	kg := NewKeyGenerator(ctx, sampling.NewSeededSource([32]byte{10}))
	sk := kg.GenSecretKey()
	pk := kg.GenPublicKey(sk)

	require.Equal(t, 2, pk.Size())
	require.True(t, pk.IsNTTForm())
	require.Equal(t, 1.0, pk.Scale())
	require.Equal(t, id, pk.ParmsId())
}

func TestSecretKeySaveLoadRoundTrip(t *testing.T) {
	ctx, _ := smallContext(t)
	kg := NewKeyGenerator(ctx, sampling.NewSeededSource([32]byte{11}))
	sk := kg.GenSecretKey()

	var buf bytes.Buffer
	_, err := sk.Save(&buf)
	require.NoError(t, err)

	loaded := &SecretKey{}
	_, err = loaded.Load(&buf)
	require.NoError(t, err)
	require.Equal(t, sk.Data, loaded.Data)
	require.Equal(t, sk.ParmsId(), loaded.ParmsId())
}

func TestKSwitchKeysSaveLoadRoundTrip(t *testing.T) {
	ctx, _ := smallContext(t)
	kg := NewKeyGenerator(ctx, sampling.NewSeededSource([32]byte{13}))
	sk := kg.GenSecretKey()

	ks := &KSwitchKeys{Keys: [][]PublicKey{
		{*kg.GenPublicKey(sk), *kg.GenPublicKey(sk)},
		{*kg.GenPublicKey(sk)},
	}}

	var buf bytes.Buffer
	_, err := ks.Save(&buf)
	require.NoError(t, err)

	loaded := &KSwitchKeys{}
	_, err = loaded.Load(&buf)
	require.NoError(t, err)

	require.Len(t, loaded.Keys, len(ks.Keys))
	for k := range ks.Keys {
		require.Len(t, loaded.Keys[k], len(ks.Keys[k]))
		for i := range ks.Keys[k] {
			require.True(t, ks.Keys[k][i].Equal(loaded.Keys[k][i].Ciphertext))
		}
	}
}

func TestPublicKeySaveLoadRoundTrip(t *testing.T) {
	ctx, _ := smallContext(t)
	kg := NewKeyGenerator(ctx, sampling.NewSeededSource([32]byte{12}))
	sk := kg.GenSecretKey()
	pk := kg.GenPublicKey(sk)

	var buf bytes.Buffer
	_, err := pk.Save(&buf)
	require.NoError(t, err)

	loaded := &PublicKey{}
	_, err = loaded.Load(&buf)
	require.NoError(t, err)
	require.Equal(t, pk.Data, loaded.Data)
	require.Equal(t, pk.ParmsId(), loaded.ParmsId())
}
