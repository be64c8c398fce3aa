// This package splits the public memory into the pages the on-chain memory
// registry hashes. Page 0 is the regular page: it is hashed as interleaved
// (address, value) words in the order the cells appear. Every other page is
// continuous: it is hashed as a dense array of values sorted by address, with
// zero words filling the gaps, and only its start address travels alongside.
// The two schemes are not interchangeable; mixing them up produces hashes the
// registry will never have seen.
package pages

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zkpipe/stark-verifier-input/starkfield"
	"github.com/zkpipe/stark-verifier-input/types"
)

// The widest address span a continuous page may cover.
const MAX_PAGE_SPAN = 1 << 30

// Page is one hashed memory page together with everything the public input
// vector records about it.
type Page struct {
	ID uint64

	// Continuous pages only.
	StartAddr *big.Int
	Values    []*big.Int

	// Regular page only, in encounter order.
	Pairs []types.MemoryCell

	Size uint64
	Hash *big.Int
}

// Facts is the page decomposition of the public memory. Continuous pages are
// ordered by ascending id; ids with no cells simply do not appear.
type Facts struct {
	Regular    *Page
	Continuous []Page
}

// Build groups the cells by page and hashes each page under its scheme.
func Build(cells []types.MemoryCell) (*Facts, error) {
	byPage := make(map[uint64][]types.MemoryCell)
	ids := make([]uint64, 0)
	for _, c := range cells {
		if _, seen := byPage[c.Page]; !seen {
			ids = append(ids, c.Page)
		}
		byPage[c.Page] = append(byPage[c.Page], c)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	facts := &Facts{Continuous: make([]Page, 0, len(ids))}
	for _, id := range ids {
		group := byPage[id]
		if id == 0 {
			facts.Regular = &Page{
				ID:    0,
				Pairs: group,
				Size:  uint64(len(group)),
				Hash:  RegularHash(group),
			}
			continue
		}
		page, err := buildContinuous(id, group)
		if err != nil {
			return nil, err
		}
		facts.Continuous = append(facts.Continuous, *page)
	}
	return facts, nil
}

// buildContinuous lays the cells out densely between the smallest and largest
// address seen on the page. A repeated address keeps the last value.
func buildContinuous(id uint64, group []types.MemoryCell) (*Page, error) {
	min := new(big.Int).Set(group[0].Address)
	max := new(big.Int).Set(group[0].Address)
	for _, c := range group[1:] {
		if c.Address.Cmp(min) < 0 {
			min.Set(c.Address)
		}
		if c.Address.Cmp(max) > 0 {
			max.Set(c.Address)
		}
	}

	span := new(big.Int).Sub(max, min)
	span.Add(span, big.NewInt(1))
	if span.Cmp(big.NewInt(MAX_PAGE_SPAN)) > 0 {
		return nil, fmt.Errorf("%w: page %d spans %s cells", types.ErrArithmeticInconsistency, id, span)
	}

	values := make([]*big.Int, span.Uint64())
	zero := big.NewInt(0)
	for i := range values {
		values[i] = zero
	}
	for _, c := range group {
		off := new(big.Int).Sub(c.Address, min)
		values[off.Uint64()] = c.Value
	}

	return &Page{
		ID:        id,
		StartAddr: min,
		Values:    values,
		Size:      uint64(len(values)),
		Hash:      ContinuousHash(values),
	}, nil
}

// RegularHash is the page 0 scheme: keccak over interleaved address and value
// words in encounter order.
func RegularHash(cells []types.MemoryCell) *big.Int {
	words := make([]*big.Int, 0, len(cells)*2)
	for _, c := range cells {
		words = append(words, c.Address, c.Value)
	}
	return new(big.Int).SetBytes(starkfield.KeccakWords(words))
}

// ContinuousHash is the id > 0 scheme: keccak over the dense value words
// alone.
func ContinuousHash(values []*big.Int) *big.Int {
	return new(big.Int).SetBytes(starkfield.KeccakWords(values))
}

// Products computes the memory permutation product of every page: the modular
// product of (z - (address + alpha * value)) over the page's cells in
// encounter order. Residues are non-negative.
func Products(cells []types.MemoryCell, z, alpha *big.Int) map[uint64]*big.Int {
	prods := make(map[uint64]*big.Int)
	for _, c := range cells {
		term := new(big.Int).Mul(alpha, c.Value)
		term.Add(term, c.Address)
		term.Mod(term, starkfield.MODULUS)
		term.Sub(z, term)
		term.Mod(term, starkfield.MODULUS)

		prod, ok := prods[c.Page]
		if !ok {
			prod = big.NewInt(1)
		}
		prod.Mul(prod, term)
		prods[c.Page] = prod.Mod(prod, starkfield.MODULUS)
	}
	return prods
}

// PageIDs lists the present pages in the order the public input vector walks
// them: the regular page first, then continuous ids ascending.
func (f *Facts) PageIDs() []uint64 {
	ids := make([]uint64, 0, len(f.Continuous)+1)
	if f.Regular != nil {
		ids = append(ids, 0)
	}
	for _, p := range f.Continuous {
		ids = append(ids, p.ID)
	}
	return ids
}

// Document renders the decomposition into its output form.
func (f *Facts) Document() types.MemoryPageFacts {
	doc := types.MemoryPageFacts{
		ContinuousPages: make([]types.ContinuousMemoryPage, 0, len(f.Continuous)),
	}
	if f.Regular != nil {
		pairs := make([]*big.Int, 0, len(f.Regular.Pairs)*2)
		for _, c := range f.Regular.Pairs {
			pairs = append(pairs, c.Address, c.Value)
		}
		doc.RegularPage = &types.RegularMemoryPage{MemoryPairs: types.HexSlice(pairs)}
	}
	for _, p := range f.Continuous {
		doc.ContinuousPages = append(doc.ContinuousPages, types.ContinuousMemoryPage{
			StartAddr: types.Hex(p.StartAddr),
			Values:    types.HexSlice(p.Values),
		})
	}
	return doc
}
