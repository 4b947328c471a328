package rlwe

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/latticeforge/ckks/ring"
)

// CtxData is the per-parameter-set precomputation the context builds once
// and shares by reference thereafter: NTT tables and a base converter for
// the owning prime chain, the product of the chain and its bit-count, and
// the chain's position relative to the key-parms head. The chain itself is
// stored as a flat, chain-index-ordered slice in Context; prev/next are
// plain indices into that slice, -1 when absent.
type CtxData struct {
	Parms *EncryptParameters

	ParametersSet bool
	UsingNTT      bool
	SecLevel      ring.SecurityLevel

	NTTTables     []*ring.NTTTable
	BaseConverter *ring.BaseConverter

	TotalCoeffModulus          *big.Int
	TotalCoeffModulusBitCount  int
	UpperHalfThreshold         *big.Int

	ChainIndex int
	PrevIndex  int
	NextIndex  int
}

// Context owns the ctxdata chain built from a head EncryptParameters: the
// key-parms ctxdata (the chain's full modulus set) at index 0, followed by
// zero or more entries each with one fewer prime, down to last-parms.
type Context struct {
	chain   []*CtxData
	byParms map[ParmsId]int

	usingKeySwitching bool
}

// NewContext validates headParms and builds its modulus chain, dropping one
// prime at a time until a further drop would violate parameter validity,
// i.e. leave fewer than one modulus. secLevel, if not SecurityNone, bounds
// the total coefficient-modulus bit-count per the HomomorphicEncryption.org
// table.
func NewContext(headParms *EncryptParameters, secLevel ring.SecurityLevel) (*Context, error) {
	ctx := &Context{byParms: make(map[ParmsId]int)}

	head, err := buildCtxData(headParms, secLevel)
	if err != nil {
		return nil, fmt.Errorf("rlwe: key parameters invalid: %w", err)
	}
	head.ChainIndex = 0 // provisional; reassigned once the chain length is known.
	head.PrevIndex = -1
	ctx.chain = append(ctx.chain, head)

	cur := headParms
	for len(cur.CoeffModulus()) > 1 {
		next, err := cur.dropLastModulus()
		if err != nil {
			break
		}
		data, err := buildCtxData(next, secLevel)
		if err != nil || !data.ParametersSet {
			break
		}
		data.PrevIndex = len(ctx.chain) - 1
		data.NextIndex = -1
		ctx.chain[len(ctx.chain)-1].NextIndex = len(ctx.chain)
		ctx.chain = append(ctx.chain, data)
		cur = next
	}

	// chain_index decreases from the key-parms head; the head holds the
	// highest index.
	top := len(ctx.chain) - 1
	for i, data := range ctx.chain {
		data.ChainIndex = top - i
		ctx.byParms[data.Parms.ParmsId()] = i
	}

	ctx.usingKeySwitching = len(ctx.chain) > 1

	return ctx, nil
}

func buildCtxData(parms *EncryptParameters, secLevel ring.SecurityLevel) (*CtxData, error) {
	data := &CtxData{Parms: parms, SecLevel: secLevel}

	if err := validate(parms, secLevel); err != nil {
		return data, err
	}

	N := parms.N()
	basis := ring.Basis(parms.CoeffModulus())

	Q := big.NewInt(1)
	for _, q := range basis {
		Q.Mul(Q, new(big.Int).SetUint64(q.Uint64()))
	}
	data.TotalCoeffModulus = Q
	data.TotalCoeffModulusBitCount = Q.BitLen()

	threshold := new(big.Int).Add(Q, big.NewInt(1))
	threshold.Rsh(threshold, 1)
	data.UpperHalfThreshold = threshold

	tables := make([]*ring.NTTTable, len(basis))
	for i, q := range basis {
		t, err := ring.GenNTTTable(N, q)
		if err != nil {
			return data, fmt.Errorf("rlwe: building NTT table for prime %d: %w", q.Uint64(), err)
		}
		tables[i] = t
	}
	data.NTTTables = tables
	data.UsingNTT = true

	data.BaseConverter = ring.NewBaseConverter(N, basis)

	data.ParametersSet = true
	return data, nil
}

func validate(parms *EncryptParameters, secLevel ring.SecurityLevel) error {
	if parms.Scheme() != CKKS {
		return fmt.Errorf("rlwe: unsupported scheme")
	}

	N := parms.N()
	if N < MinPolyModulusDegree || N > MaxPolyModulusDegree {
		return fmt.Errorf("rlwe: poly_modulus_degree %d out of range", N)
	}
	if 1<<bits.TrailingZeros(uint(N)) != N {
		return fmt.Errorf("rlwe: poly_modulus_degree %d is not a power of two", N)
	}

	basis := parms.CoeffModulus()
	if len(basis) < MinCoeffModulusCount || len(basis) > MaxCoeffModulusCount {
		return fmt.Errorf("rlwe: coeff_modulus count %d out of range", len(basis))
	}
	for _, q := range basis {
		if q.BitCount() < ring.MinModulusBitCount || q.BitCount() > ring.MaxModulusBitCount {
			return fmt.Errorf("rlwe: coeff_modulus prime %d has invalid bit-count %d", q.Uint64(), q.BitCount())
		}
		if !q.IsPrime() {
			return fmt.Errorf("rlwe: coeff_modulus entry %d is not prime", q.Uint64())
		}
	}
	for i := 0; i < len(basis); i++ {
		for j := i + 1; j < len(basis); j++ {
			if gcd(basis[i].Uint64(), basis[j].Uint64()) != 1 {
				return fmt.Errorf("rlwe: coeff_modulus entries %d and %d are not coprime", basis[i].Uint64(), basis[j].Uint64())
			}
		}
	}

	if parms.PlainModulus().Uint64() != 0 {
		return fmt.Errorf("rlwe: plain_modulus must be zero for CKKS")
	}

	if secLevel != ring.SecurityNone {
		total := 0
		for _, q := range basis {
			total += q.BitCount()
		}
		if max := ring.MaxBitCount(N, secLevel); max == 0 || total > max {
			return fmt.Errorf("rlwe: total coeff_modulus bit-count %d exceeds the security budget for N=%d", total, N)
		}
	}

	return nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// KeyCtxData returns the key-parms ctxdata, the chain head.
func (c *Context) KeyCtxData() *CtxData { return c.chain[0] }

// FirstCtxData returns the first data-chain ctxdata: the key-parms ctxdata
// if there is only one prime, otherwise the entry one level below it.
func (c *Context) FirstCtxData() *CtxData {
	if len(c.chain) == 1 {
		return c.chain[0]
	}
	return c.chain[1]
}

// LastCtxData returns the last (lowest chain-index) ctxdata.
func (c *Context) LastCtxData() *CtxData { return c.chain[len(c.chain)-1] }

// GetCtxData looks up a ctxdata by ParmsId. Returns nil if id is not part
// of this context's chain.
func (c *Context) GetCtxData(id ParmsId) *CtxData {
	i, ok := c.byParms[id]
	if !ok {
		return nil
	}
	return c.chain[i]
}

// Prev returns the previous (higher chain-index) ctxdata, or nil at the head.
func (c *Context) Prev(d *CtxData) *CtxData {
	if d.PrevIndex < 0 {
		return nil
	}
	return c.chain[d.PrevIndex]
}

// Next returns the next (lower chain-index) ctxdata, or nil at the tail.
func (c *Context) Next(d *CtxData) *CtxData {
	if d.NextIndex < 0 {
		return nil
	}
	return c.chain[d.NextIndex]
}

// UsingKeySwitching reports whether first-parms differs from key-parms,
// i.e. the chain has more than one level.
func (c *Context) UsingKeySwitching() bool { return c.usingKeySwitching }

// IsParmsSet reports whether id names a fully validated ctxdata in this context.
func (c *Context) IsParmsSet(id ParmsId) bool {
	d := c.GetCtxData(id)
	return d != nil && d.ParametersSet
}
