package buffer

import (
	"encoding/binary"
	"io"

	"golang.org/x/exp/constraints"
)

// ReadUint8 reads a single byte from r into v.
func ReadUint8(r Reader, v *uint8) (int64, error) {
	var b [1]byte
	n, err := io.ReadFull(r, b[:])
	*v = b[0]
	return int64(n), err
}

// ReadUint16 reads a little-endian uint16 from r into v.
func ReadUint16(r Reader, v *uint16) (int64, error) {
	var b [2]byte
	n, err := io.ReadFull(r, b[:])
	*v = binary.LittleEndian.Uint16(b[:])
	return int64(n), err
}

// ReadUint32 reads a little-endian uint32 from r into v.
func ReadUint32(r Reader, v *uint32) (int64, error) {
	var b [4]byte
	n, err := io.ReadFull(r, b[:])
	*v = binary.LittleEndian.Uint32(b[:])
	return int64(n), err
}

// ReadUint64 reads a little-endian uint64 from r into v.
func ReadUint64(r Reader, v *uint64) (int64, error) {
	var b [8]byte
	n, err := io.ReadFull(r, b[:])
	*v = binary.LittleEndian.Uint64(b[:])
	return int64(n), err
}

// ReadInt reads a little-endian int64 from r into v.
func ReadInt(r Reader, v *int) (int64, error) {
	var u uint64
	n, err := ReadUint64(r, &u)
	*v = int(int64(u))
	return n, err
}

// ReadUint8Slice fills v entirely from r.
func ReadUint8Slice(r Reader, v []uint8) (int64, error) {
	n, err := io.ReadFull(r, v)
	return int64(n), err
}

// ReadUint64Slice fills v entirely from r, decoding each element as little-endian.
func ReadUint64Slice(r Reader, v []uint64) (int64, error) {
	buf := make([]byte, 8*len(v))
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), err
	}
	for i := range v {
		v[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return int64(n), nil
}

// ReadAsUint8 reads a byte from r into v (widened to int).
func ReadAsUint8[T constraints.Integer](r Reader, v *T) (int64, error) {
	var u uint8
	n, err := ReadUint8(r, &u)
	*v = T(u)
	return n, err
}

// ReadAsUint16 reads a little-endian uint16 from r into v (widened to int).
func ReadAsUint16[T constraints.Integer](r Reader, v *T) (int64, error) {
	var u uint16
	n, err := ReadUint16(r, &u)
	*v = T(u)
	return n, err
}

// ReadAsUint16Slice fills v (narrowed from uint16) entirely from r.
func ReadAsUint16Slice[T constraints.Integer](r Reader, v []T) (n int64, err error) {
	var inc int64
	for i := range v {
		var u uint16
		if inc, err = ReadUint16(r, &u); err != nil {
			return n + inc, err
		}
		v[i] = T(u)
		n += inc
	}
	return n, nil
}

// ReadAsUint32 reads a little-endian uint32 from r into v (widened to int).
func ReadAsUint32[T constraints.Integer](r Reader, v *T) (int64, error) {
	var u uint32
	n, err := ReadUint32(r, &u)
	*v = T(u)
	return n, err
}

// ReadAsUint32Slice fills v (narrowed from uint32) entirely from r.
func ReadAsUint32Slice[T constraints.Integer](r Reader, v []T) (n int64, err error) {
	var inc int64
	for i := range v {
		var u uint32
		if inc, err = ReadUint32(r, &u); err != nil {
			return n + inc, err
		}
		v[i] = T(u)
		n += inc
	}
	return n, nil
}

// ReadAsUint64 reads a little-endian uint64 from r into v (narrowed to int).
func ReadAsUint64[T constraints.Integer](r Reader, v *T) (int64, error) {
	var u uint64
	n, err := ReadUint64(r, &u)
	*v = T(u)
	return n, err
}

// ReadAsUint64Slice fills v (narrowed from uint64) entirely from r.
func ReadAsUint64Slice[T constraints.Integer](r Reader, v []T) (n int64, err error) {
	buf := make([]uint64, len(v))
	n, err = ReadUint64Slice(r, buf)
	for i, x := range buf {
		v[i] = T(x)
	}
	return n, err
}

// Read reads a length-prefixed byte slice written by Write and returns a
// freshly allocated slice.
func Read(r Reader, v *[]byte) (n int64, err error) {
	var size int
	var inc int64
	if inc, err = ReadAsUint64(r, &size); err != nil {
		return n + inc, err
	}
	n += inc
	if cap(*v) < size {
		*v = make([]byte, size)
	} else {
		*v = (*v)[:size]
	}
	if inc, err = ReadUint8Slice(r, *v); err != nil {
		return n + inc, err
	}
	return n + inc, nil
}
