package pages

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/stretchr/testify/require"

	"github.com/zkpipe/stark-verifier-input/types"
)

func cell(page uint64, addr, value int64) types.MemoryCell {
	return types.MemoryCell{Page: page, Address: big.NewInt(addr), Value: big.NewInt(value)}
}

func TestBuildPartition(t *testing.T) {
	facts, err := Build([]types.MemoryCell{
		cell(0, 1, 100),
		cell(1, 500, 7),
		cell(0, 2, 200),
		cell(3, 900, 8),
	})
	require.NoError(t, err)

	require.NotNil(t, facts.Regular)
	require.Len(t, facts.Regular.Pairs, 2)
	require.Equal(t, uint64(2), facts.Regular.Size)

	require.Len(t, facts.Continuous, 2)
	require.Equal(t, uint64(1), facts.Continuous[0].ID)
	require.Equal(t, uint64(3), facts.Continuous[1].ID)

	require.Equal(t, []uint64{0, 1, 3}, facts.PageIDs())
}

func TestBuildNoRegularPage(t *testing.T) {
	facts, err := Build([]types.MemoryCell{cell(2, 10, 1)})
	require.NoError(t, err)
	require.Nil(t, facts.Regular)
	require.Equal(t, []uint64{2}, facts.PageIDs())

	doc := facts.Document()
	require.Nil(t, doc.RegularPage)
	require.Len(t, doc.ContinuousPages, 1)
}

func TestContinuousGapFill(t *testing.T) {
	facts, err := Build([]types.MemoryCell{
		cell(1, 12, 30),
		cell(1, 10, 10),
	})
	require.NoError(t, err)
	require.Len(t, facts.Continuous, 1)

	page := facts.Continuous[0]
	require.Zero(t, page.StartAddr.Cmp(big.NewInt(10)))
	require.Equal(t, uint64(3), page.Size)
	require.Zero(t, page.Values[0].Cmp(big.NewInt(10)))
	require.Zero(t, page.Values[1].Sign())
	require.Zero(t, page.Values[2].Cmp(big.NewInt(30)))

	// The hash covers the dense array, gap word included.
	require.Zero(t, page.Hash.Cmp(ContinuousHash([]*big.Int{big.NewInt(10), big.NewInt(0), big.NewInt(30)})))
}

func TestContinuousSpanCap(t *testing.T) {
	_, err := Build([]types.MemoryCell{
		cell(1, 1, 1),
		cell(1, 1+MAX_PAGE_SPAN, 2),
	})
	require.ErrorIs(t, err, types.ErrArithmeticInconsistency)
}

// The two page schemes hash different byte streams even for the same cells.
func TestHashSchemesDiffer(t *testing.T) {
	cells := []types.MemoryCell{cell(0, 5, 9)}
	regular := RegularHash(cells)
	continuous := ContinuousHash([]*big.Int{big.NewInt(9)})
	require.NotZero(t, regular.Cmp(continuous))
}

func TestHashMutationSensitivity(t *testing.T) {
	base := []types.MemoryCell{cell(0, 1, 2), cell(0, 3, 4)}
	mutated := []types.MemoryCell{cell(0, 1, 2), cell(0, 3, 5)}
	require.NotZero(t, RegularHash(base).Cmp(RegularHash(mutated)))

	reordered := []types.MemoryCell{cell(0, 3, 4), cell(0, 1, 2)}
	require.NotZero(t, RegularHash(base).Cmp(RegularHash(reordered)))

	require.NotZero(t, ContinuousHash([]*big.Int{big.NewInt(1), big.NewInt(2)}).
		Cmp(ContinuousHash([]*big.Int{big.NewInt(2), big.NewInt(1)})))
}

// Shifting every address on a continuous page by a constant moves only the
// start address: the hash covers values alone, so it must not change.
func TestContinuousHashAddressShiftInvariant(t *testing.T) {
	base, err := Build([]types.MemoryCell{
		cell(1, 10, 7),
		cell(1, 12, 9),
	})
	require.NoError(t, err)

	shifted, err := Build([]types.MemoryCell{
		cell(1, 510, 7),
		cell(1, 512, 9),
	})
	require.NoError(t, err)

	require.Zero(t, base.Continuous[0].Hash.Cmp(shifted.Continuous[0].Hash))
	require.Zero(t, shifted.Continuous[0].StartAddr.Cmp(big.NewInt(510)))
	require.NotZero(t, base.Continuous[0].StartAddr.Cmp(shifted.Continuous[0].StartAddr))
}

func TestProductsWorkedExample(t *testing.T) {
	// (z - (addr + alpha*value)) over (1,5) and (2,7) with z=3, alpha=2:
	// (3 - 11) * (3 - 16) = 104 mod p.
	prods := Products([]types.MemoryCell{cell(0, 1, 5), cell(0, 2, 7)}, big.NewInt(3), big.NewInt(2))
	require.Len(t, prods, 1)
	require.Zero(t, prods[0].Cmp(big.NewInt(104)))
}

func TestProductsPerPage(t *testing.T) {
	prods := Products([]types.MemoryCell{
		cell(0, 1, 5),
		cell(2, 2, 7),
	}, big.NewInt(3), big.NewInt(2))
	require.Len(t, prods, 2)

	// Each page multiplies only its own cells.
	single := Products([]types.MemoryCell{cell(2, 2, 7)}, big.NewInt(3), big.NewInt(2))
	require.Zero(t, prods[2].Cmp(single[2]))
}

// Cell order within a page must not change the product. Cross-checked against
// an independent implementation on gnark-crypto's field element.
func TestProductsOrderIndependent(t *testing.T) {
	z, alpha := big.NewInt(1234567), big.NewInt(7654321)
	cells := []types.MemoryCell{
		cell(1, 10, 11),
		cell(1, 12, 13),
		cell(1, 14, 15),
	}
	reversed := []types.MemoryCell{cells[2], cells[1], cells[0]}

	got := Products(cells, z, alpha)[1]
	require.Zero(t, got.Cmp(Products(reversed, z, alpha)[1]))

	var want, term, av fp.Element
	want.SetOne()
	var zEl, alphaEl fp.Element
	zEl.SetBigInt(z)
	alphaEl.SetBigInt(alpha)
	for _, c := range cells {
		var addr, val fp.Element
		addr.SetBigInt(c.Address)
		val.SetBigInt(c.Value)
		av.Mul(&alphaEl, &val)
		av.Add(&av, &addr)
		term.Sub(&zEl, &av)
		want.Mul(&want, &term)
	}
	require.Zero(t, got.Cmp(want.BigInt(new(big.Int))))
}
