package rlwe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/utils/sampling"
)

func TestEncryptAtLowerLevelModulusSwitches(t *testing.T) {
	parms := buildParms(t, 64, []int{30, 30, 30})
	ctx, err := NewContext(parms, ring.SecurityNone)
	require.NoError(t, err)

	src := sampling.NewSeededSource([32]byte{20})
	kg := NewKeyGenerator(ctx, src)
	sk := kg.GenSecretKey()
	pk := kg.GenPublicKey(sk)

	last := ctx.LastCtxData()
	require.NotSame(t, ctx.KeyCtxData(), last)

	pt := NewPlaintext()
	L := len(last.Parms.CoeffModulus())
	N := last.Parms.N()
	pt.Data = make([]uint64, L*N)
	pt.SetParmsId(last.Parms.ParmsId())
	pt.SetScale(1 << 20)

	enc := NewEncryptor(ctx, pk, src)
	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	require.Equal(t, last.Parms.ParmsId(), ct.ParmsId())
	require.Equal(t, L, ct.CoeffModCount())
	require.Equal(t, 2, ct.Size())
	require.Equal(t, pt.Scale(), ct.Scale())
	require.True(t, ct.IsNTTForm())
}

func TestEncryptRejectsNonNTTPlaintext(t *testing.T) {
	ctx, _ := smallContext(t)
	src := sampling.NewSeededSource([32]byte{21})
	kg := NewKeyGenerator(ctx, src)
	sk := kg.GenSecretKey()
	pk := kg.GenPublicKey(sk)

	enc := NewEncryptor(ctx, pk, src)
	pt, err := ParsePlaintext("1", ctx.KeyCtxData().Parms.N())
	require.NoError(t, err)

	_, err = enc.Encrypt(pt)
	require.Error(t, err)
}

func TestDecryptRejectsNonNTTCiphertext(t *testing.T) {
	ctx, _ := smallContext(t)
	src := sampling.NewSeededSource([32]byte{22})
	kg := NewKeyGenerator(ctx, src)
	sk := kg.GenSecretKey()

	ct := NewCiphertext()
	require.NoError(t, ct.Resize(ctx, ctx.KeyCtxData().Parms.ParmsId(), 2))
	ct.SetIsNTTForm(false)

	dec := NewDecryptor(ctx, sk)
	_, err := dec.Decrypt(ct)
	require.Error(t, err)
}
