package ring

// Basis is an ordered list of coefficient moduli q_1..q_L forming an RNS
// base Q = prod(q_i). RNS polynomials over this basis are stored as a flat
// []uint64 of length L*N, with prime i occupying coeff[i*N : i*N+N].
type Basis []Modulus

// AtLevel returns the sub-basis q_0..q_level (inclusive), mirroring a
// modulus-switched or rescaled chain position.
func (b Basis) AtLevel(level int) Basis { return b[:level+1] }

// Add computes dst = a+b coefficientwise, per prime, over N coefficients.
func (b Basis) Add(N int, a, c, dst []uint64) {
	for i, q := range b {
		off := i * N
		ai, ci, di := a[off:off+N], c[off:off+N], dst[off:off+N]
		for j := 0; j < N; j++ {
			di[j] = q.AddMod(ai[j], ci[j])
		}
	}
}

// Sub computes dst = a-b coefficientwise, per prime.
func (b Basis) Sub(N int, a, c, dst []uint64) {
	for i, q := range b {
		off := i * N
		ai, ci, di := a[off:off+N], c[off:off+N], dst[off:off+N]
		for j := 0; j < N; j++ {
			di[j] = q.SubMod(ai[j], ci[j])
		}
	}
}

// Negate computes dst = -a coefficientwise, per prime.
func (b Basis) Negate(N int, a, dst []uint64) {
	for i, q := range b {
		off := i * N
		ai, di := a[off:off+N], dst[off:off+N]
		for j := 0; j < N; j++ {
			di[j] = q.NegateMod(ai[j])
		}
	}
}

// DyadicProduct computes dst = a*b coefficientwise (NTT-domain pointwise
// multiply), per prime.
func (b Basis) DyadicProduct(N int, a, c, dst []uint64) {
	for i, q := range b {
		off := i * N
		ai, ci, di := a[off:off+N], c[off:off+N], dst[off:off+N]
		for j := 0; j < N; j++ {
			di[j] = q.MulMod(ai[j], ci[j])
		}
	}
}

// NTT applies tables[i].ForwardNormalize to each prime's residues in place.
func (b Basis) NTT(N int, tables []*NTTTable, a []uint64) {
	for i := range b {
		off := i * N
		tables[i].ForwardNormalize(a[off : off+N])
	}
}

// InvNTT applies tables[i].BackwardNormalize and folds in the N^-1 scale
// per prime's residues in place (the scale is already folded into the
// table's invRootPowersDivTwo twiddles).
func (b Basis) InvNTT(N int, tables []*NTTTable, a []uint64) {
	for i := range b {
		off := i * N
		tables[i].BackwardNormalize(a[off : off+N])
	}
}
