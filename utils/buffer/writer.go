package buffer

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// WriteUint8 writes a single byte to w and returns the number of bytes written.
func WriteUint8(w Writer, v uint8) (int64, error) {
	n, err := w.Write([]byte{v})
	return int64(n), err
}

// WriteUint16 writes v to w in little-endian order.
func WriteUint16(w Writer, v uint16) (int64, error) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// WriteUint32 writes v to w in little-endian order.
func WriteUint32(w Writer, v uint32) (int64, error) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// WriteUint64 writes v to w in little-endian order.
func WriteUint64(w Writer, v uint64) (int64, error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// WriteInt writes v to w as a little-endian int64.
func WriteInt(w Writer, v int) (int64, error) {
	return WriteUint64(w, uint64(int64(v)))
}

// WriteUint8Slice writes each element of v to w as a single byte.
func WriteUint8Slice(w Writer, v []uint8) (n int64, err error) {
	var inc int
	if inc, err = w.Write(v); err != nil {
		return n + int64(inc), err
	}
	return n + int64(inc), nil
}

// WriteUint64Slice writes each element of v to w in little-endian order.
func WriteUint64Slice(w Writer, v []uint64) (n int64, err error) {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], x)
	}
	wn, err := w.Write(buf)
	return int64(wn), err
}

// WriteAsUint8 writes v, narrowed to uint8, to w.
func WriteAsUint8[T constraints.Integer](w Writer, v T) (int64, error) {
	return WriteUint8(w, uint8(v))
}

// WriteAsUint16 writes v, narrowed to uint16, to w.
func WriteAsUint16[T constraints.Integer](w Writer, v T) (int64, error) {
	return WriteUint16(w, uint16(v))
}

// WriteAsUint16Slice writes each element of v, narrowed to uint16, to w.
func WriteAsUint16Slice[T constraints.Integer](w Writer, v []T) (n int64, err error) {
	var inc int64
	for _, x := range v {
		if inc, err = WriteUint16(w, uint16(x)); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// WriteAsUint32 writes v, narrowed to uint32, to w.
func WriteAsUint32[T constraints.Integer](w Writer, v T) (int64, error) {
	return WriteUint32(w, uint32(v))
}

// WriteAsUint32Slice writes each element of v, narrowed to uint32, to w.
func WriteAsUint32Slice[T constraints.Integer](w Writer, v []T) (n int64, err error) {
	var inc int64
	for _, x := range v {
		if inc, err = WriteUint32(w, uint32(x)); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// WriteAsUint64 writes v, widened to uint64, to w.
func WriteAsUint64[T constraints.Integer](w Writer, v T) (int64, error) {
	return WriteUint64(w, uint64(v))
}

// WriteAsUint64Slice writes each element of v, widened to uint64, to w.
func WriteAsUint64Slice[T constraints.Integer](w Writer, v []T) (n int64, err error) {
	buf := make([]uint64, len(v))
	for i, x := range v {
		buf[i] = uint64(x)
	}
	return WriteUint64Slice(w, buf)
}

// Write writes an arbitrary byte slice to w, prefixed by its length.
func Write(w Writer, v []byte) (n int64, err error) {
	var inc int64
	if inc, err = WriteAsUint64(w, len(v)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = WriteUint8Slice(w, v); err != nil {
		return n + inc, err
	}
	return n + inc, nil
}
