package rlwe

import (
	"fmt"
	"math"
	"slices"

	"github.com/latticeforge/ckks/utils/buffer"
)

// MaxCiphertextSizeCap is the maximum polynomial count Reserve will grow a
// ciphertext's backing array to in a single allocation.
const MaxCiphertextSizeCap = MaxCiphertextSize

// Ciphertext is a flat RNS buffer holding size (>=2) degree-(size-1)
// polynomials in the secret key, at a given level (coeffModCount primes)
// and ring degree. Layout: size*coeffModCount*polyModulusDegree uint64s,
// polynomial-major: polynomial j occupies
// Data[j*coeffModCount*N : (j+1)*coeffModCount*N], and within that block
// prime i occupies the sub-slice [i*N : i*N+N].
type Ciphertext struct {
	Data []uint64

	size               int
	polyModulusDegree  int
	coeffModCount      int
	isNTTForm          bool
	parmsId            ParmsId
	scale              float64
}

// NewCiphertext returns an empty, size-2 ciphertext. Call Resize before use.
func NewCiphertext() *Ciphertext {
	return &Ciphertext{size: 2}
}

// Size returns the polynomial count k.
func (ct *Ciphertext) Size() int { return ct.size }

// PolyModulusDegree returns N.
func (ct *Ciphertext) PolyModulusDegree() int { return ct.polyModulusDegree }

// CoeffModCount returns the number of coefficient-modulus primes L.
func (ct *Ciphertext) CoeffModCount() int { return ct.coeffModCount }

// IsNTTForm reports whether the ciphertext's polynomials are in NTT form.
func (ct *Ciphertext) IsNTTForm() bool { return ct.isNTTForm }

// SetIsNTTForm overrides the NTT-form flag.
func (ct *Ciphertext) SetIsNTTForm(v bool) { ct.isNTTForm = v }

// ParmsId returns the ciphertext's ParmsId.
func (ct *Ciphertext) ParmsId() ParmsId { return ct.parmsId }

// Scale returns the ciphertext's scale factor.
func (ct *Ciphertext) Scale() float64 { return ct.scale }

// SetScale overrides the ciphertext's scale factor.
func (ct *Ciphertext) SetScale(scale float64) { ct.scale = scale }

// Resize lays the ciphertext out for the ctxdata named by id in ctx, with
// the given polynomial count. size must be in [2, MaxCiphertextSizeCap].
func (ct *Ciphertext) Resize(ctx *Context, id ParmsId, size int) error {
	if size < 2 || size > MaxCiphertextSizeCap {
		return fmt.Errorf("rlwe: ciphertext size %d out of range [2,%d]", size, MaxCiphertextSizeCap)
	}
	data := ctx.GetCtxData(id)
	if data == nil {
		return fmt.Errorf("rlwe: parms_id is not valid for this context")
	}
	N := data.Parms.N()
	L := len(data.Parms.CoeffModulus())
	needed := size * L * N

	if needed <= cap(ct.Data) {
		ct.Data = ct.Data[:needed]
		for i := range ct.Data {
			ct.Data[i] = 0
		}
	} else {
		ct.Data = make([]uint64, needed)
	}

	ct.size = size
	ct.polyModulusDegree = N
	ct.coeffModCount = L
	ct.parmsId = id
	return nil
}

// Reserve grows the backing array so that later Resize calls up to
// sizeCapacity polynomials at the layout named by id reuse it without
// reallocating. The capacity is rounded up to at least 2 and capped at
// MaxCiphertextSizeCap. The logical size and metadata are unchanged.
func (ct *Ciphertext) Reserve(ctx *Context, id ParmsId, sizeCapacity int) error {
	if sizeCapacity < 2 {
		sizeCapacity = 2
	}
	if sizeCapacity > MaxCiphertextSizeCap {
		sizeCapacity = MaxCiphertextSizeCap
	}
	data := ctx.GetCtxData(id)
	if data == nil {
		return fmt.Errorf("rlwe: parms_id is not valid for this context")
	}
	needed := sizeCapacity * len(data.Parms.CoeffModulus()) * data.Parms.N()
	if needed <= cap(ct.Data) {
		return nil
	}
	grown := make([]uint64, len(ct.Data), needed)
	copy(grown, ct.Data)
	ct.Data = grown
	return nil
}

// At returns the flat (coeffModCount*N)-length sub-slice backing the
// polyIndex-th polynomial.
func (ct *Ciphertext) At(polyIndex int) []uint64 {
	stride := ct.coeffModCount * ct.polyModulusDegree
	if polyIndex < 0 || polyIndex >= ct.size {
		panic(fmt.Errorf("rlwe: ciphertext polynomial index %d out of range [0,%d)", polyIndex, ct.size))
	}
	return ct.Data[polyIndex*stride : (polyIndex+1)*stride]
}

// dropLastModulus repacks the ciphertext's layout from coeffModCount
// primes to coeffModCount-1, assuming every polynomial's surviving
// residues already sit in the first (coeffModCount-1)*N words of its
// block (the caller rescales each block in place before calling this).
// It compacts the per-polynomial blocks to the new, smaller stride.
func (ct *Ciphertext) dropLastModulus() {
	N := ct.polyModulusDegree
	oldL := ct.coeffModCount
	newL := oldL - 1
	for j := 1; j < ct.size; j++ {
		src := ct.Data[j*oldL*N : j*oldL*N+newL*N]
		dst := ct.Data[j*newL*N : j*newL*N+newL*N]
		copy(dst, src)
	}
	ct.Data = ct.Data[:ct.size*newL*N]
	ct.coeffModCount = newL
}

// Clone returns a deep copy of ct.
func (ct *Ciphertext) Clone() *Ciphertext {
	cpy := *ct
	cpy.Data = append([]uint64(nil), ct.Data...)
	return &cpy
}

// Equal reports whether ct and other hold identical metadata and coefficients.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	return ct.size == other.size &&
		ct.polyModulusDegree == other.polyModulusDegree &&
		ct.coeffModCount == other.coeffModCount &&
		ct.isNTTForm == other.isNTTForm &&
		ct.parmsId == other.parmsId &&
		ct.scale == other.scale &&
		slices.Equal(ct.Data, other.Data)
}

// Save serializes ct to w as: magic(4B) · version(1B) · parms_id(32B) ·
// is_ntt(1B) · size(8B) · N(8B) · L(8B) · scale(8B) · data_count(8B) ·
// data(data_count*8B).
func (ct *Ciphertext) Save(w buffer.Writer) (int64, error) {
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
	for _, word := range ct.parmsId {
		n, err = buffer.WriteUint64(w, word)
		total += n
		if err != nil {
			return total, err
		}
	}
	var nttByte uint8
	if ct.isNTTForm {
		nttByte = 1
	}
	n, err = buffer.WriteUint8(w, nttByte)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteInt(w, ct.size)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteInt(w, ct.polyModulusDegree)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteInt(w, ct.coeffModCount)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteUint64(w, math.Float64bits(ct.scale))
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteInt(w, len(ct.Data))
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.WriteUint64Slice(w, ct.Data)
	total += n
	return total, err
}

// Load deserializes ct from r, replacing its contents.
func (ct *Ciphertext) Load(r buffer.Reader) (int64, error) {
	var total int64
	var magic uint32
	n, err := buffer.ReadUint32(r, &magic)
	total += n
	if err != nil {
		return total, err
	}
	if magic != saveMagic {
		return total, fmt.Errorf("rlwe: ciphertext stream has bad magic %#x", magic)
	}
	var version uint8
	n, err = buffer.ReadUint8(r, &version)
	total += n
	if err != nil {
		return total, err
	}
	if version != saveVersion {
		return total, fmt.Errorf("rlwe: ciphertext stream has unsupported version %d", version)
	}
	var id ParmsId
	for i := range id {
		n, err = buffer.ReadUint64(r, &id[i])
		total += n
		if err != nil {
			return total, err
		}
	}
	var nttByte uint8
	n, err = buffer.ReadUint8(r, &nttByte)
	total += n
	if err != nil {
		return total, err
	}
	var size, N, L int
	n, err = buffer.ReadInt(r, &size)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.ReadInt(r, &N)
	total += n
	if err != nil {
		return total, err
	}
	n, err = buffer.ReadInt(r, &L)
	total += n
	if err != nil {
		return total, err
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
	ct.parmsId = id
	ct.isNTTForm = nttByte != 0
	ct.size = size
	ct.polyModulusDegree = N
	ct.coeffModCount = L
	ct.scale = math.Float64frombits(scaleBits)
	ct.Data = data
	return total, nil
}
