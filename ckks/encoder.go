package ckks

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/latticeforge/ckks/ring"
	"github.com/latticeforge/ckks/rlwe"
	"github.com/latticeforge/ckks/utils/bignum"
)

// canonicalEmbeddingGenerator is the multiplicative-group generator used
// to build the slot permutation: 3 has order N/2 in (Z/2NZ)*, so its
// powers visit every coset needed to place N/2 independent slots plus
// their conjugates.
const canonicalEmbeddingGenerator = 3

const twoPow64 = 18446744073709551616.0

// Encoder maps a slot vector of up to N/2 complex values to an RNS
// plaintext in NTT form via an inverse FFT over the canonical-embedding
// permutation, and back via the matching forward FFT.
type Encoder struct {
	ctx   *rlwe.Context
	N     int
	slots int
	logN  int

	// permutation[i] places slot i's value at a bit-reversed index in the
	// length-N working buffer; permutation[slots|i] places its conjugate.
	permutation []int
	roots       []complex128
	invRoots    []complex128
}

// NewEncoder builds an Encoder for ctx's ring degree. The permutation and
// root tables are shared by every ParmsId in the chain, since they only
// depend on N.
func NewEncoder(ctx *rlwe.Context) *Encoder {
	data := ctx.FirstCtxData()
	N := data.Parms.N()
	logN := bits.TrailingZeros(uint(N))
	slots := N / 2
	m := uint64(2 * N)

	perm := make([]int, N)
	pos := uint64(1)
	for i := 0; i < slots; i++ {
		index1 := (pos - 1) >> 1
		index2 := (m - pos - 1) >> 1
		perm[i] = ring.BitReverse(int(index1), logN)
		perm[slots|i] = ring.BitReverse(int(index2), logN)
		pos = (pos * canonicalEmbeddingGenerator) % m
	}

	roots := make([]complex128, N)
	invRoots := make([]complex128, N)
	for i := 0; i < N; i++ {
		angle := 2 * math.Pi * float64(ring.BitReverse(i, logN)) / float64(m)
		roots[i] = complex(math.Cos(angle), math.Sin(angle))
		invRoots[i] = complex(real(roots[i]), -imag(roots[i]))
	}

	return &Encoder{ctx: ctx, N: N, slots: slots, logN: logN, permutation: perm, roots: roots, invRoots: invRoots}
}

// Slots returns the number of independent slots, N/2.
func (e *Encoder) Slots() int { return e.slots }

// Encode maps values (length <= Slots()) into a plaintext in NTT form at
// id, scaled by scale.
func (e *Encoder) Encode(values []complex128, id rlwe.ParmsId, scale float64) (*rlwe.Plaintext, error) {
	data := e.ctx.GetCtxData(id)
	if data == nil {
		return nil, fmt.Errorf("ckks: parms_id is not valid for this context")
	}
	if scale <= 0 {
		return nil, fmt.Errorf("ckks: scale must be positive")
	}
	if len(values) > e.slots {
		return nil, fmt.Errorf("ckks: values has invalid size %d for %d slots", len(values), e.slots)
	}

	N := e.N
	basis := ring.Basis(data.Parms.CoeffModulus())
	L := len(basis)

	buf := make([]complex128, N)
	for i, v := range values {
		buf[e.permutation[i]] = v
		buf[e.permutation[e.slots|i]] = complex(real(v), -imag(v))
	}

	e.invFFT(buf)

	nInv := scale / float64(N)
	maxBits := 1
	for i := range buf {
		buf[i] *= complex(nInv, 0)
		if re := math.Abs(real(buf[i])); re > 0 {
			if b := int(math.Log2(re)) + 2; b > maxBits {
				maxBits = b
			}
		}
	}
	if maxBits >= data.TotalCoeffModulusBitCount {
		return nil, fmt.Errorf("ckks: encoded values are too large for the coefficient modulus budget")
	}

	dst := make([]uint64, L*N)
	switch {
	case maxBits <= 64:
		for i := 0; i < N; i++ {
			coeffd := math.Round(real(buf[i]))
			neg := math.Signbit(coeffd)
			u := uint64(math.Abs(coeffd))
			for j, q := range basis {
				v := u % q.Uint64()
				if neg {
					v = q.NegateMod(v)
				}
				dst[j*N+i] = v
			}
		}
	case maxBits <= 128:
		for i := 0; i < N; i++ {
			coeffd := math.Round(real(buf[i]))
			neg := math.Signbit(coeffd)
			coeffd = math.Abs(coeffd)
			lo := uint64(math.Mod(coeffd, twoPow64))
			hi := uint64(coeffd / twoPow64)
			for j, q := range basis {
				v := q.BarrettReduce128([2]uint64{lo, hi})
				if neg {
					v = q.NegateMod(v)
				}
				dst[j*N+i] = v
			}
		}
	default:
		// Generic multi-limb path, only ever reached when scale*max|v|
		// spans more than 128 bits; big.Int.Mod computes each residue
		// directly, which is simpler for a path this rare.
		for i := 0; i < N; i++ {
			coeffd := math.Round(real(buf[i]))
			neg := math.Signbit(coeffd)
			value := floatToBigInt(math.Abs(coeffd))
			for j, q := range basis {
				residue := new(big.Int).Mod(value, new(big.Int).SetUint64(q.Uint64())).Uint64()
				if neg {
					residue = q.NegateMod(residue)
				}
				dst[j*N+i] = residue
			}
		}
	}

	basis.NTT(N, data.NTTTables, dst)

	pt := rlwe.NewPlaintext()
	pt.Data = dst
	pt.SetParmsId(id)
	pt.SetScale(scale)
	return pt, nil
}

// Decode recovers a complex slot vector of length Slots() from an
// NTT-form plaintext.
func (e *Encoder) Decode(pt *rlwe.Plaintext) ([]complex128, error) {
	if !pt.IsNTTForm() {
		return nil, fmt.Errorf("ckks: plaintext must be in NTT form to decode")
	}
	data := e.ctx.GetCtxData(pt.ParmsId())
	if data == nil {
		return nil, fmt.Errorf("ckks: parms_id is not valid for this context")
	}
	if pt.Scale() <= 0 {
		return nil, fmt.Errorf("ckks: plaintext scale must be positive")
	}

	N := e.N
	basis := ring.Basis(data.Parms.CoeffModulus())
	L := len(basis)

	buf := append([]uint64(nil), pt.Data...)
	basis.InvNTT(N, data.NTTTables, buf)

	res := make([]complex128, N)
	residues := make([]uint64, L)
	for i := 0; i < N; i++ {
		for j := range basis {
			residues[j] = buf[j*N+i]
		}
		centered := data.BaseConverter.ComposeCoefficient(residues)
		f := new(big.Float).SetPrec(256).SetInt(centered)
		f.Quo(f, bignum.NewFloat(pt.Scale(), 256))
		v, _ := f.Float64()
		res[i] = complex(v, 0)
	}

	e.fft(res)

	out := make([]complex128, e.slots)
	for i := 0; i < e.slots; i++ {
		out[i] = res[e.permutation[i]]
	}
	return out, nil
}

// invFFT runs the in-place inverse negacyclic-embedding FFT used by
// Encode, a decimation-in-frequency butterfly over invRoots.
func (e *Encoder) invFFT(values []complex128) {
	tt := 1
	for i := 0; i < e.logN; i++ {
		mm := 1 << (e.logN - i)
		h := mm / 2
		kStart := 0
		for j := 0; j < h; j++ {
			kEnd := kStart + tt
			s := e.invRoots[h+j]
			for k := kStart; k < kEnd; k++ {
				u := values[k]
				v := values[k+tt]
				values[k] = u + v
				values[k+tt] = (u - v) * s
			}
			kStart += 2 * tt
		}
		tt *= 2
	}
}

// fft runs the in-place forward FFT used by Decode, the left inverse of invFFT.
func (e *Encoder) fft(values []complex128) {
	tt := e.N
	for i := 0; i < e.logN; i++ {
		mm := 1 << i
		tt >>= 1
		for j := 0; j < mm; j++ {
			j1 := 2 * j * tt
			s := e.roots[mm+j]
			for k := j1; k < j1+tt; k++ {
				u := values[k]
				v := values[k+tt] * s
				values[k] = u + v
				values[k+tt] = u - v
			}
		}
	}
}

func floatToBigInt(f float64) *big.Int {
	i, _ := bignum.NewFloat(f, 256).Int(nil)
	return i
}
