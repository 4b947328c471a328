package ring

import "math/big"

// BaseConverter holds the RNS bookkeeping tables for translating between
// the main base (q_1..q_L) and the auxiliary base (m_1..m_L, m_sk) drawn
// from the fixed auxiliary modulus table, plus the last-modulus tables
// that drive rescale and the punctured-product tables that drive CRT
// recombination.
type BaseConverter struct {
	basis Basis
	N     int

	// lastModulusInv[i] = q_L^-1 mod q_i, for i in [0, L-1).
	lastModulusInv []uint64

	// Q is the full modulus product for this basis.
	Q *big.Int
	// QDivQi[i] = Q / q_i.
	QDivQi []*big.Int
	// QDivQiModQi[i] = (Q/q_i)^-1 mod q_i, the punctured-product inverse
	// used by the CRT recombination formula.
	QDivQiModQi []uint64
	// UpperHalfThreshold = ceil(Q/2); values >= this recombine to a
	// negative signed integer.
	UpperHalfThreshold *big.Int

	// auxBase holds L+1 primes from the fixed auxiliary table; the last
	// entry is the special modulus m_sk.
	auxBase Basis
	// QDivQiModMj[j][i] = (Q/q_i) mod m_j, for the fast-conversion formula.
	QDivQiModMj [][]uint64
}

// NewBaseConverter builds the tables for basis (q_1..q_L).
func NewBaseConverter(N int, basis Basis) *BaseConverter {
	L := len(basis)
	bc := &BaseConverter{basis: basis, N: N}

	if L > 1 {
		qL := basis[L-1]
		bc.lastModulusInv = make([]uint64, L-1)
		for i := 0; i < L-1; i++ {
			bc.lastModulusInv[i] = basis[i].Inverse(qL.Uint64() % basis[i].Uint64())
		}
	}

	Q := big.NewInt(1)
	for _, q := range basis {
		Q.Mul(Q, new(big.Int).SetUint64(q.Uint64()))
	}
	bc.Q = Q

	bc.QDivQi = make([]*big.Int, L)
	bc.QDivQiModQi = make([]uint64, L)
	for i, q := range basis {
		qi := new(big.Int).SetUint64(q.Uint64())
		div := new(big.Int).Quo(Q, qi)
		bc.QDivQi[i] = div
		mod := new(big.Int).Mod(div, qi).Uint64()
		bc.QDivQiModQi[i] = q.Inverse(mod)
	}

	bc.UpperHalfThreshold = new(big.Int).Add(Q, big.NewInt(1))
	bc.UpperHalfThreshold.Rsh(bc.UpperHalfThreshold, 1)

	bc.auxBase = make(Basis, L+1)
	for j := 0; j <= L; j++ {
		bc.auxBase[j] = NewModulus(auxiliaryModuli[j])
	}
	bc.QDivQiModMj = make([][]uint64, L+1)
	for j, m := range bc.auxBase {
		row := make([]uint64, L)
		mj := new(big.Int).SetUint64(m.Uint64())
		for i := range basis {
			row[i] = new(big.Int).Mod(bc.QDivQi[i], mj).Uint64()
		}
		bc.QDivQiModMj[j] = row
	}

	return bc
}

// AuxBase returns the auxiliary base (m_1..m_L, m_sk) this converter
// targets; the last entry is the special modulus m_sk.
func (bc *BaseConverter) AuxBase() Basis { return bc.auxBase }

// FastBaseConvert converts an RNS polynomial over the main base into the
// auxiliary base by the fast-conversion formula
// dst_j = sum_i ((src_i * (Q/q_i)^-1 mod q_i) * (Q/q_i)) mod m_j.
// No exact centering is performed: the result may exceed the true residue
// by a small multiple of Q mod m_j, as the formula's error bound allows.
// src is a flat L*N buffer over the main base; dst a flat (L+1)*N buffer
// over the auxiliary base.
func (bc *BaseConverter) FastBaseConvert(src, dst []uint64) {
	L := len(bc.basis)
	N := bc.N

	t := make([]uint64, L)
	for n := 0; n < N; n++ {
		for i, q := range bc.basis {
			t[i] = q.MulMod(src[i*N+n], bc.QDivQiModQi[i])
		}
		for j, m := range bc.auxBase {
			var acc uint64
			for i := range bc.basis {
				acc = m.AddMod(acc, m.MulMod(m.Reduce(t[i]), bc.QDivQiModMj[j][i]))
			}
			dst[j*N+n] = acc
		}
	}
}

// FloorLastModulusInplace rescales an RNS polynomial from L primes to L-1
// primes in place, in the plain (non-NTT) domain: for each i < L-1,
// poly_i <- (q_L^-1 mod q_i) * (poly_i - poly_L mod q_i) mod q_i.
// Returns the coefficients for the reduced basis (the first (L-1)*N
// entries of poly, overwritten in place).
func (bc *BaseConverter) FloorLastModulusInplace(poly []uint64) []uint64 {
	L := len(bc.basis)
	N := bc.N
	last := poly[(L-1)*N : L*N]

	for i := 0; i < L-1; i++ {
		qi := bc.basis[i]
		inv := bc.lastModulusInv[i]
		off := i * N
		for j := 0; j < N; j++ {
			lastResidue := last[j] % qi.Uint64()
			diff := qi.SubMod(poly[off+j], lastResidue)
			poly[off+j] = qi.MulMod(diff, inv)
		}
	}
	return poly[:(L-1)*N]
}

// FloorLastModulusNTTInplace performs the same rescale on a polynomial
// whose residues are in the NTT domain: the last residue is inverse-NTT'd,
// reduced into each surviving prime and forward-NTT'd there, and the
// subtract-multiply step then runs entirely in the NTT domain (the
// transform is linear, so the reduction commutes with it). tables must be
// indexed the same way as bc.basis.
func (bc *BaseConverter) FloorLastModulusNTTInplace(poly []uint64, tables []*NTTTable) []uint64 {
	L := len(bc.basis)
	N := bc.N

	last := poly[(L-1)*N : L*N]
	tables[L-1].BackwardNormalize(last)

	tmp := make([]uint64, N)
	for i := 0; i < L-1; i++ {
		qi := bc.basis[i]
		inv := bc.lastModulusInv[i]
		for j := 0; j < N; j++ {
			tmp[j] = last[j] % qi.Uint64()
		}
		tables[i].ForwardNormalize(tmp)

		off := i * N
		for j := 0; j < N; j++ {
			diff := qi.SubMod(poly[off+j], tmp[j])
			poly[off+j] = qi.MulMod(diff, inv)
		}
	}
	return poly[:(L-1)*N]
}

// ComposeCoefficient recombines a single coefficient's RNS residues
// {poly_1[idx], ..., poly_L[idx]} into a centered signed big integer:
// sum_i (residue_i * QDivQiModQi_i mod q_i) * QDivQi_i, reduced mod Q and
// centered around zero via UpperHalfThreshold.
func (bc *BaseConverter) ComposeCoefficient(residues []uint64) *big.Int {
	acc := new(big.Int)
	tmp := new(big.Int)
	for i, q := range bc.basis {
		t := q.MulMod(residues[i], bc.QDivQiModQi[i])
		tmp.SetUint64(t)
		tmp.Mul(tmp, bc.QDivQi[i])
		acc.Add(acc, tmp)
	}
	acc.Mod(acc, bc.Q)
	if acc.Cmp(bc.UpperHalfThreshold) >= 0 {
		acc.Sub(acc, bc.Q)
	}
	return acc
}
