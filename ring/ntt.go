package ring

import (
	"fmt"
	"math/bits"
)

// NTTTable holds the precomputed root-power tables for the negacyclic NTT
// over Z[x]/(x^N+1) modulo one prime q, plus the Shoup-scaled counterpart of
// each table used by Harvey's lazy butterfly (W' = floor(W*2^64/q), so a
// butterfly needs one high-word multiply instead of a full Barrett
// reduction).
type NTTTable struct {
	N     int
	Q     Modulus
	Psi   uint64 // chosen 2N-th primitive root
	NInv  uint64 // N^-1 mod q

	rootPowers    []uint64
	rootShoup     []uint64
	invRootPowers []uint64
	invRootShoup  []uint64

	// inv_root_powers_div_two folds the final N^-1 scaling into the inverse
	// transform's twiddles.
	invRootPowersDivTwo []uint64
	invRootDivTwoShoup  []uint64
}

// GenNTTTable builds the forward/inverse NTT tables for degree N modulo q.
// Returns an error (and no table) if q is not congruent to 1 mod 2N, i.e. no
// primitive 2N-th root of unity exists.
func GenNTTTable(N int, q Modulus) (*NTTTable, error) {
	logN := bits.TrailingZeros(uint(N))
	if 1<<logN != N {
		return nil, fmt.Errorf("ring: N=%d is not a power of two", N)
	}

	degree := uint64(2 * N)
	psi, ok := tryMinimalPrimitiveRoot(degree, q)
	if !ok {
		return nil, fmt.Errorf("ring: no primitive %d-th root of unity mod %d", degree, q.Uint64())
	}
	psiInv := q.Inverse(psi)

	t := &NTTTable{N: N, Q: q, Psi: psi}

	t.rootPowers = powersBitReversed(N, logN, psi, q)
	t.rootShoup = shoupize(t.rootPowers, q)

	t.invRootPowers = powersBitReversed(N, logN, psiInv, q)
	t.invRootShoup = shoupize(t.invRootPowers, q)

	t.invRootPowersDivTwo = make([]uint64, N)
	for i, v := range t.invRootPowers {
		t.invRootPowersDivTwo[i] = q.HalveMod(v)
	}
	t.invRootDivTwoShoup = shoupize(t.invRootPowersDivTwo, q)

	t.NInv = q.Inverse(uint64(N))

	return t, nil
}

// powersBitReversed fills dest[br(i)] = root^i for i = 0..N-1.
func powersBitReversed(N, logN int, root uint64, q Modulus) []uint64 {
	dest := make([]uint64, N)
	dest[0] = 1 % q.Uint64()
	cur := uint64(1)
	for i := 1; i < N; i++ {
		cur = q.MulMod(cur, root)
		dest[bitReverse(i, logN)] = cur
	}
	return dest
}

// shoupize precomputes floor(v*2^64/q) for each v, the Shoup scaling that
// lets a butterfly multiply by v mod q using one high-word multiply.
func shoupize(values []uint64, q Modulus) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		// 128-bit numerator {lo: 0, hi: v} divided by q, i.e. floor(v*2^64/q).
		quot, _ := bits.Div64(v, 0, q.Uint64())
		out[i] = quot
	}
	return out
}

// BitReverse reverses the low bitsN bits of x. Shared with the ckks
// package's encoder, which bit-reverses its root-of-unity and
// canonical-embedding permutation tables the same way.
func BitReverse(x, bitsN int) int {
	r := 0
	for i := 0; i < bitsN; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func bitReverse(x, bitsN int) int { return BitReverse(x, bitsN) }

// Forward computes the in-place negacyclic NTT of a (length N), lazily
// leaving coefficients in [0, 4q); ForwardNormalize reduces to [0, q).
func (t *NTTTable) Forward(a []uint64) {
	q := t.Q.Uint64()
	twoQ := q << 1
	n := t.N

	tt := n >> 1
	for m := 1; m < n; m <<= 1 {
		for i := 0; i < m; i++ {
			j1 := 2 * i * tt
			j2 := j1 + tt

			W := t.rootPowers[m+i]
			Wp := t.rootShoup[m+i]

			for j := j1; j < j2; j++ {
				x := a[j]
				y := a[j+tt]

				if x >= twoQ {
					x -= twoQ
				}

				hi, _ := bits.Mul64(Wp, y)
				Q := y*W - hi*q

				a[j] = x + Q
				a[j+tt] = x + (twoQ - Q)
			}
		}
		tt >>= 1
	}
}

// ForwardNormalize runs Forward and reduces every coefficient into [0, q).
func (t *NTTTable) ForwardNormalize(a []uint64) {
	t.Forward(a)
	q := t.Q.Uint64()
	twoQ := q << 1
	for i, v := range a {
		if v >= twoQ {
			v -= twoQ
		}
		if v >= q {
			v -= q
		}
		a[i] = v
	}
}

// Backward computes the in-place inverse negacyclic NTT (Gentleman-Sande,
// Harvey's lazy butterfly), folding the N^-1 scaling into
// invRootPowersDivTwo.
func (t *NTTTable) Backward(a []uint64) {
	q := t.Q.Uint64()
	twoQ := q << 1
	n := t.N

	tt := 1
	for m := n; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + tt

			W := t.invRootPowersDivTwo[h+i]
			Wp := t.invRootDivTwoShoup[h+i]

			for j := j1; j < j2; j++ {
				u := a[j]
				v := a[j+tt]

				T := twoQ - v + u
				currU := u + v
				if (u << 1) >= T {
					currU -= twoQ
				}
				if T&1 == 1 {
					currU += q
				}
				a[j] = currU >> 1

				hi, _ := bits.Mul64(Wp, T)
				a[j+tt] = T*W - hi*q
			}
			j1 += tt << 1
		}
		tt <<= 1
	}
}

// BackwardNormalize runs Backward and reduces every coefficient into [0, q).
func (t *NTTTable) BackwardNormalize(a []uint64) {
	t.Backward(a)
	q := t.Q.Uint64()
	for i, v := range a {
		if v >= q {
			v -= q
		}
		a[i] = v
	}
}

// tryPrimitiveRoot finds a degree-th primitive root of unity modulo q.value,
// for q.value = 1 mod degree, by scanning candidate generators of (Z/qZ)*
// in increasing order.
func tryPrimitiveRoot(degree uint64, q Modulus) (uint64, bool) {
	if (q.Uint64()-1)%degree != 0 {
		return 0, false
	}
	quotient := (q.Uint64() - 1) / degree
	for candidate := uint64(2); candidate < q.Uint64(); candidate++ {
		root := q.Exp(candidate, quotient)
		if isPrimitiveRoot(root, degree, q) {
			return root, true
		}
	}
	return 0, false
}

// tryMinimalPrimitiveRoot returns the lexicographically smallest primitive
// root of the given order. Every such root is an odd power of any one of
// them, so the scan multiplies by the root's square degree/2 times and
// keeps the minimum.
func tryMinimalPrimitiveRoot(degree uint64, q Modulus) (uint64, bool) {
	root, ok := tryPrimitiveRoot(degree, q)
	if !ok {
		return 0, false
	}
	generatorSq := q.MulMod(root, root)
	current := root
	min := root
	for i := uint64(0); i < degree/2; i++ {
		if current < min {
			min = current
		}
		current = q.MulMod(current, generatorSq)
	}
	return min, true
}

// isPrimitiveRoot reports whether root has exact multiplicative order
// `degree` modulo q.value. Since degree is always a power of two in this
// library (degree = 2N), it suffices to check root^degree = 1 and
// root^(degree/2) = -1.
func isPrimitiveRoot(root, degree uint64, q Modulus) bool {
	if root == 0 {
		return false
	}
	return q.Exp(root, degree/2) == q.Uint64()-1
}
