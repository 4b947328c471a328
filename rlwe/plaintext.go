package rlwe

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/latticeforge/ckks/utils/buffer"
)

// Plaintext is a growable RNS coefficient buffer paired with the ParmsId
// and scale that say how those coefficients are to be interpreted. A
// zero ParmsId marks non-NTT form: Data holds coefficients in some plain
// integer basis (the only such plaintexts this library produces come from
// ParsePlaintext). Any other ParmsId marks NTT form: Data holds
// per-prime residues, prime i occupying Data[i*N : i*N+N].
type Plaintext struct {
	Data    []uint64
	parmsId ParmsId
	scale   float64
}

// NewPlaintext returns an empty, non-NTT-form plaintext.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// ParmsId returns the plaintext's ParmsId. The zero value means non-NTT form.
func (pt *Plaintext) ParmsId() ParmsId { return pt.parmsId }

// SetParmsId overrides the plaintext's ParmsId.
func (pt *Plaintext) SetParmsId(id ParmsId) { pt.parmsId = id }

// Scale returns the plaintext's scale factor.
func (pt *Plaintext) Scale() float64 { return pt.scale }

// SetScale overrides the plaintext's scale factor.
func (pt *Plaintext) SetScale(scale float64) { pt.scale = scale }

// IsNTTForm reports whether the plaintext carries a non-zero ParmsId.
func (pt *Plaintext) IsNTTForm() bool { return !pt.parmsId.IsZero() }

// CoeffCount returns the logical size of the coefficient buffer.
func (pt *Plaintext) CoeffCount() int { return len(pt.Data) }

// Capacity returns the backing array's capacity.
func (pt *Plaintext) Capacity() int { return cap(pt.Data) }

// Resize grows or shrinks the plaintext to exactly n coefficients,
// preserving the shared prefix and zeroing any newly exposed suffix.
func (pt *Plaintext) Resize(n int) {
	if n <= len(pt.Data) {
		pt.Data = pt.Data[:n]
		return
	}
	if n <= cap(pt.Data) {
		old := len(pt.Data)
		pt.Data = pt.Data[:n]
		for i := old; i < n; i++ {
			pt.Data[i] = 0
		}
		return
	}
	grown := make([]uint64, n)
	copy(grown, pt.Data)
	pt.Data = grown
}

// Release frees the backing buffer and resets metadata to zero values.
func (pt *Plaintext) Release() {
	pt.Data = nil
	pt.parmsId = ParmsId{}
	pt.scale = 0
}

// IsZero reports whether every coefficient is zero.
func (pt *Plaintext) IsZero() bool {
	for _, c := range pt.Data {
		if c != 0 {
			return false
		}
	}
	return true
}

// SignificantCoeffCount returns the index past the highest-order nonzero
// coefficient, i.e. the smallest prefix length that still contains every
// nonzero coefficient.
func (pt *Plaintext) SignificantCoeffCount() int {
	n := len(pt.Data)
	for n > 0 && pt.Data[n-1] == 0 {
		n--
	}
	return n
}

// NonzeroCoeffCount returns the number of nonzero coefficients.
func (pt *Plaintext) NonzeroCoeffCount() int {
	c := 0
	for _, v := range pt.Data {
		if v != 0 {
			c++
		}
	}
	return c
}

// At returns the coefficient at index i. Panics (OutOfRange) if i is past
// the end of the buffer, matching the container's bounds-checked access.
func (pt *Plaintext) At(i int) uint64 {
	if i < 0 || i >= len(pt.Data) {
		panic(fmt.Errorf("rlwe: plaintext coefficient index %d out of range [0,%d)", i, len(pt.Data)))
	}
	return pt.Data[i]
}

// Set assigns the coefficient at index i.
func (pt *Plaintext) Set(i int, v uint64) {
	if i < 0 || i >= len(pt.Data) {
		panic(fmt.Errorf("rlwe: plaintext coefficient index %d out of range [0,%d)", i, len(pt.Data)))
	}
	pt.Data[i] = v
}

// Clone returns a deep copy of pt.
func (pt *Plaintext) Clone() *Plaintext {
	return &Plaintext{Data: append([]uint64(nil), pt.Data...), parmsId: pt.parmsId, scale: pt.scale}
}

// Equal reports whether pt and other hold identical metadata and coefficients.
func (pt *Plaintext) Equal(other *Plaintext) bool {
	return pt.parmsId == other.parmsId &&
		pt.scale == other.scale &&
		slices.Equal(pt.Data, other.Data)
}

// ParsePlaintext parses a hex polynomial of the form "7x^2 + 3x^1 + 1",
// one term per nonzero coefficient in descending order of degree,
// constant term written bare. The result is non-NTT form (ParmsId zero)
// with N coefficients. This is the only path in the library that ever
// produces a non-NTT plaintext: CKKS plaintexts that flow through the
// encoder/encryptor/decryptor are always NTT form.
func ParsePlaintext(s string, N int) (*Plaintext, error) {
	pt := &Plaintext{Data: make([]uint64, N)}
	s = strings.TrimSpace(s)
	if s == "" {
		return pt, nil
	}
	for _, term := range strings.Split(s, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		var coeffHex string
		var degree int
		if idx := strings.Index(term, "x^"); idx >= 0 {
			coeffHex = strings.TrimSpace(term[:idx])
			degStr := strings.TrimSpace(term[idx+2:])
			d, err := strconv.Atoi(degStr)
			if err != nil {
				return nil, fmt.Errorf("rlwe: malformed exponent %q: %w", degStr, err)
			}
			degree = d
		} else {
			coeffHex = term
			degree = 0
		}
		if degree < 0 || degree >= N {
			return nil, fmt.Errorf("rlwe: term degree %d out of range [0,%d)", degree, N)
		}
		v, err := strconv.ParseUint(coeffHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("rlwe: malformed hex coefficient %q: %w", coeffHex, err)
		}
		pt.Data[degree] = v
	}
	return pt, nil
}

// magic and version tag every saved plaintext/ciphertext/key, so the
// stream format can evolve without breaking stored blobs.
const (
	saveMagic   uint32 = 0x484b4b43 // "CKKH" little-endian
	saveVersion uint8  = 1
)

// Save serializes pt to w as: magic(4B) · version(1B) · parms_id(32B) ·
// scale(8B double) · coeff_count(8B) · coeffs(coeff_count*8B).
func (pt *Plaintext) Save(w buffer.Writer) (int64, error) {
	var total int64
	n, err := buffer.WriteUint32(w, saveMagic)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteUint8(w, saveVersion)
	total += n
	if err != nil {
		return total, err
	}
	for _, word := range pt.parmsId {
		n, err = buffer.WriteUint64(w, word)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = buffer.WriteUint64(w, math.Float64bits(pt.scale))
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteInt(w, len(pt.Data))
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteUint64Slice(w, pt.Data)
	total += n
	return total, err
}

// Load deserializes pt from r, replacing its contents.
func (pt *Plaintext) Load(r buffer.Reader) (int64, error) {
	var total int64
	var magic uint32
	n, err := buffer.ReadUint32(r, &magic)
	total += n
	if err != nil {
		return total, err
	}
	if magic != saveMagic {
		return total, fmt.Errorf("rlwe: plaintext stream has bad magic %#x", magic)
	}
	var version uint8
	n, err = buffer.ReadUint8(r, &version)
	total += n
	if err != nil {
		return total, err
	}
	if version != saveVersion {
		return total, fmt.Errorf("rlwe: plaintext stream has unsupported version %d", version)
	}
	var id ParmsId
	for i := range id {
		n, err = buffer.ReadUint64(r, &id[i])
		total += n
		if err != nil {
			return total, err
		}
	}
	var scaleBits uint64
	n, err = buffer.ReadUint64(r, &scaleBits)
	total += n
	if err != nil {
		return total, err
	}
	var count int
	n, err = buffer.ReadInt(r, &count)
	total += n
	if err != nil {
		return total, err
	}
	data := make([]uint64, count)
	n, err = buffer.ReadUint64Slice(r, data)
	total += n
	if err != nil {
		return total, err
	}
	pt.parmsId = id
	pt.scale = math.Float64frombits(scaleBits)
	pt.Data = data
	return total, nil
}
