package rlwe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaintextResizePreservesPrefixAndZeroesSuffix(t *testing.T) {
	pt := NewPlaintext()
	pt.Resize(4)
	for i := 0; i < 4; i++ {
		pt.Set(i, uint64(i+1))
	}

	pt.Resize(2)
	require.Equal(t, []uint64{1, 2}, pt.Data)

	pt.Resize(5)
	require.Equal(t, []uint64{1, 2, 0, 0, 0}, pt.Data)
}

func TestPlaintextZeroAndCoeffCounts(t *testing.T) {
	pt := NewPlaintext()
	pt.Resize(4)
	require.True(t, pt.IsZero())
	require.Equal(t, 0, pt.SignificantCoeffCount())
	require.Equal(t, 0, pt.NonzeroCoeffCount())

	pt.Set(0, 5)
	pt.Set(2, 7)
	require.False(t, pt.IsZero())
	require.Equal(t, 3, pt.SignificantCoeffCount())
	require.Equal(t, 2, pt.NonzeroCoeffCount())
}

func TestPlaintextAtSetOutOfRangePanics(t *testing.T) {
	pt := NewPlaintext()
	pt.Resize(2)
	require.Panics(t, func() { pt.At(2) })
	require.Panics(t, func() { pt.Set(-1, 0) })
}

func TestParsePlaintextHexPolynomial(t *testing.T) {
	pt, err := ParsePlaintext("7x^2 + 3x^1 + 1", 4)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3, 7, 0}, pt.Data)
	require.True(t, pt.ParmsId().IsZero())
	require.False(t, pt.IsNTTForm())
}

func TestParsePlaintextRejectsOutOfRangeDegree(t *testing.T) {
	_, err := ParsePlaintext("1x^9", 4)
	require.Error(t, err)
}

func TestPlaintextSaveLoadRoundTrip(t *testing.T) {
	pt := NewPlaintext()
	pt.Data = []uint64{1, 2, 3, 4, 5, 6}
	pt.SetParmsId(ParmsId{11, 22, 33, 44})
	pt.SetScale(1 << 40)

	var buf bytes.Buffer
	_, err := pt.Save(&buf)
	require.NoError(t, err)

	loaded := NewPlaintext()
	_, err = loaded.Load(&buf)
	require.NoError(t, err)

	require.Equal(t, pt.Data, loaded.Data)
	require.Equal(t, pt.ParmsId(), loaded.ParmsId())
	require.Equal(t, pt.Scale(), loaded.Scale())
}

func TestPlaintextLoadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})
	_, err := NewPlaintext().Load(&buf)
	require.Error(t, err)
}
