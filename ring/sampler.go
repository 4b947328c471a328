package ring

import (
	"math"

	"github.com/latticeforge/ckks/utils/sampling"
)

// NoiseStandardDeviation and NoiseMaxDeviation are the fixed error
// parameters used for every CKKS error sample.
const (
	NoiseStandardDeviation = 3.2
	NoiseMaxDeviation      = 6 * NoiseStandardDeviation
)

// UniformSampler fills a flat RNS polynomial with uniformly random residues,
// one independent rejection-sampled draw per coefficient per prime (a
// shared raw value is not reused across primes: each prime's residue is an
// independent uniform draw modulo that prime).
type UniformSampler struct {
	Basis Basis
	N     int
}

// Sample fills dst (length len(Basis)*N) with uniform residues.
func (s UniformSampler) Sample(src *sampling.Source, dst []uint64) {
	for i, q := range s.Basis {
		off := i * s.N
		for j := 0; j < s.N; j++ {
			dst[off+j] = src.Uint64N(q.Uint64())
		}
	}
}

// GaussianSampler draws a single centered-normal polynomial (shared across
// all primes in the basis, each residue just being the signed value
// reduced into that prime) with the fixed standard deviation and a
// hard clip at NoiseMaxDeviation.
type GaussianSampler struct {
	Basis Basis
	N     int
}

// Sample fills dst (length len(Basis)*N) with a centered-normal error
// polynomial: the same signed coefficient is independently drawn once per
// slot and then reduced into each prime's residue (negative values are
// represented as q_i - |c|).
func (s GaussianSampler) Sample(src *sampling.Source, dst []uint64) {
	coeffs := make([]int64, s.N)
	for j := 0; j < s.N; j++ {
		coeffs[j] = drawClippedNormal(src)
	}
	for i, q := range s.Basis {
		off := i * s.N
		for j, c := range coeffs {
			dst[off+j] = signedToResidue(c, q)
		}
	}
}

func drawClippedNormal(src *sampling.Source) int64 {
	for {
		v := src.NormFloat64() * NoiseStandardDeviation
		if math.Abs(v) <= NoiseMaxDeviation {
			return int64(math.Round(v))
		}
	}
}

func signedToResidue(c int64, q Modulus) uint64 {
	if c >= 0 {
		return uint64(c) % q.Uint64()
	}
	return q.Uint64() - (uint64(-c) % q.Uint64())
}

// TernarySampler draws a uniform ternary secret, each coefficient
// independently and uniformly in {-1, 0, 1}, shared across all primes in
// the basis. See LegacyTernarySampler for the rounded-normal variant kept
// for reproducing legacy recorded outputs.
type TernarySampler struct {
	Basis Basis
	N     int
}

// Sample fills dst with a uniform ternary polynomial, storing -1 as q_i-1
// in each residue.
func (s TernarySampler) Sample(src *sampling.Source, dst []uint64) {
	coeffs := make([]int8, s.N)
	for j := 0; j < s.N; j++ {
		// Uint64N(3) gives {0,1,2}; map to {0,1,-1}.
		switch src.Uint64N(3) {
		case 0:
			coeffs[j] = 0
		case 1:
			coeffs[j] = 1
		default:
			coeffs[j] = -1
		}
	}
	fillTernaryResidues(s.Basis, s.N, coeffs, dst)
}

// LegacyTernarySampler rounds a centered-normal draw to the nearest of
// {-1, 0, 1} instead of sampling the ternary distribution uniformly, which
// biases the secret-key distribution towards 0. Kept only to reproduce
// legacy recorded outputs; GenSecretKey uses TernarySampler.
type LegacyTernarySampler struct {
	Basis Basis
	N     int
}

// Sample fills dst with a rounded-normal-ternary polynomial.
func (s LegacyTernarySampler) Sample(src *sampling.Source, dst []uint64) {
	coeffs := make([]int8, s.N)
	for j := 0; j < s.N; j++ {
		v := math.Round(src.NormFloat64())
		switch {
		case v <= -1:
			coeffs[j] = -1
		case v >= 1:
			coeffs[j] = 1
		default:
			coeffs[j] = 0
		}
	}
	fillTernaryResidues(s.Basis, s.N, coeffs, dst)
}

func fillTernaryResidues(basis Basis, N int, coeffs []int8, dst []uint64) {
	for i, q := range basis {
		off := i * N
		for j, c := range coeffs {
			switch c {
			case 0:
				dst[off+j] = 0
			case 1:
				dst[off+j] = 1
			default:
				dst[off+j] = q.Uint64() - 1
			}
		}
	}
}
