package ckks

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/rlwe"
	"github.com/latticeforge/ckks/utils/structs"
)

func TestEncryptDecryptBatch(t *testing.T) {
	e := testEngine(t, 4096, []int{40, 20, 40})
	kp := e.GenKeyPair()

	rows := [][]complex128{
		{complex(1, 0), complex(2, 0)},
		{complex(3, 0)},
		{complex(-4.5, 0)},
	}
	scale := math.Pow(2, 20)

	cts, err := e.EncryptBatch(rows, kp.Public, scale)
	require.NoError(t, err)
	require.Equal(t, len(rows), cts.Size())

	decoded, err := e.DecryptBatch(cts, kp.Secret)
	require.NoError(t, err)
	require.Len(t, decoded, len(rows))

	for i, row := range rows {
		for j, want := range row {
			require.InDelta(t, real(want), real(decoded[i][j]), 0.05, "row %d slot %d", i, j)
		}
	}
}

func TestCiphertextVectorCloneEqualSaveLoad(t *testing.T) {
	e := testEngine(t, 4096, []int{40, 20, 40})
	kp := e.GenKeyPair()

	cts, err := e.EncryptBatch([][]complex128{{1}, {2, 3}}, kp.Public, math.Pow(2, 20))
	require.NoError(t, err)

	clone := cts.Clone()
	require.True(t, cts.Equal(clone))

	clone[0].Data[0] ^= 1
	require.False(t, cts.Equal(clone))

	var buf bytes.Buffer
	_, err = cts.Save(&buf)
	require.NoError(t, err)

	loaded, _, err := structs.LoadVector(&buf, rlwe.NewCiphertext)
	require.NoError(t, err)
	require.True(t, cts.Equal(loaded))
}

func TestNewSeededEngineDeterministic(t *testing.T) {
	seed := [32]byte{7}
	e1, err := NewSeededEngine(4096, []int{40, 20, 40}, ring.SecurityNone, seed)
	require.NoError(t, err)
	e2, err := NewSeededEngine(4096, []int{40, 20, 40}, ring.SecurityNone, seed)
	require.NoError(t, err)

	kp1 := e1.GenKeyPair()
	kp2 := e2.GenKeyPair()
	require.Equal(t, kp1.Secret.Data, kp2.Secret.Data)
	require.Equal(t, kp1.Public.Data, kp2.Public.Data)
}
