package assets

import (
	"math/big"
	"sort"
	"testing"

	iotago "github.com/iotaledger/iota.go/v3"
	"github.com/stretchr/testify/require"
)

func testConcreteID(fill byte) AssetID {
	addr := &iotago.Ed25519Address{}
	for i := range addr {
		addr[i] = fill
	}
	return &ConcreteAssetID{Location: addr}
}

func testAbstractID(tag ...byte) AssetID {
	return &AbstractAssetID{Tag: tag}
}

func fungible(t *testing.T, id AssetID, amount int64) *MultiAsset {
	t.Helper()
	a, err := NewFungibleAsset(id, big.NewInt(amount))
	require.NoError(t, err)
	return a
}

func nonFungibleIdx(id AssetID, idx int64) *MultiAsset {
	return NewNonFungibleAsset(id, &IndexInstance{Index: big.NewInt(idx)})
}

func TestNewFungibleAssetRejectsZeroAmount(t *testing.T) {
	_, err := NewFungibleAsset(testConcreteID(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidAssetAmount)

	_, err = NewFungibleAsset(testConcreteID(1), nil)
	require.ErrorIs(t, err, ErrInvalidAssetAmount)
}

func TestNewFungibleAssetRejectsOversizedAmount(t *testing.T) {
	over := new(big.Int).Add(MaxUint128, big.NewInt(1))
	_, err := NewFungibleAsset(testConcreteID(1), over)
	require.ErrorIs(t, err, ErrAmountOverflow)
}

func TestMultiAssetCompareIsTotalOrder(t *testing.T) {
	distinct := []*MultiAsset{
		fungible(t, testConcreteID(1), 5),
		fungible(t, testConcreteID(2), 5),
		fungible(t, testAbstractID(1), 5),
		fungible(t, testAbstractID(1, 2), 5),
		nonFungibleIdx(testConcreteID(1), 1),
		nonFungibleIdx(testConcreteID(1), 2),
		NewNonFungibleAsset(testConcreteID(1), &UndefinedInstance{}),
		NewNonFungibleAsset(testConcreteID(1), &Array4Instance{Key: [4]byte{9}}),
		NewNonFungibleAsset(testConcreteID(1), &BlobInstance{Blob: []byte{9}}),
	}

	// antisymmetry over all distinct pairs
	for i, a := range distinct {
		for j, b := range distinct {
			if i == j {
				require.Zero(t, a.Compare(b))
				continue
			}
			require.NotZero(t, a.Compare(b), "assets %d and %d must not compare equal", i, j)
			require.Equal(t, a.Compare(b), -b.Compare(a))
		}
	}

	// transitivity via sort stability: sorting twice yields the same arrangement
	sorted := append([]*MultiAsset{}, distinct...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Compare(sorted[j]) < 0 })
	again := append([]*MultiAsset{}, sorted...)
	sort.Slice(again, func(i, j int) bool { return again[i].Compare(again[j]) < 0 })
	for i := range sorted {
		require.True(t, sorted[i].Equal(again[i]))
	}
}

func TestMultiAssetCompareUint128PayloadsNumerically(t *testing.T) {
	classN := testConcreteID(1)

	// 256 encodes with a low zero byte on the wire, numeric order must win
	require.Negative(t, nonFungibleIdx(classN, 1).Compare(nonFungibleIdx(classN, 256)))
	require.Positive(t, nonFungibleIdx(classN, 256).Compare(nonFungibleIdx(classN, 1)))
	require.Negative(t, nonFungibleIdx(classN, 255).Compare(nonFungibleIdx(classN, 256)))

	require.Negative(t, fungible(t, classN, 1).Compare(fungible(t, classN, 256)))
	require.Negative(t, fungible(t, classN, 256).Compare(fungible(t, classN, 65536)))

	big1 := NewNonFungibleAsset(classN, &IndexInstance{Index: new(big.Int).Lsh(big.NewInt(1), 120)})
	require.Negative(t, nonFungibleIdx(classN, 256).Compare(big1))
}

func TestMultiAssetEqualByValue(t *testing.T) {
	a := fungible(t, testAbstractID(7, 7), 42)
	b := fungible(t, testAbstractID(7, 7), 42)
	c := fungible(t, testAbstractID(7, 7), 43)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))

	x := nonFungibleIdx(testConcreteID(3), 9)
	y := nonFungibleIdx(testConcreteID(3), 9)
	z := nonFungibleIdx(testConcreteID(3), 10)
	require.True(t, x.Equal(y))
	require.False(t, x.Equal(z))
}

func TestMultiAssetRewriteLocationKeepsFungibility(t *testing.T) {
	a := fungible(t, testConcreteID(1), 100)
	before := a.Fun.Clone()

	// rewriting the class location under a new frame of reference must not
	// touch the amount side
	a.ID = testConcreteID(9)
	require.Equal(t, FungibilityFungible, a.Fun.Type())
	require.Zero(t, a.Fun.(*FungibleAmount).Amount.Cmp(before.(*FungibleAmount).Amount))
	require.True(t, AssetIDsEqual(a.ID, testConcreteID(9)))
}
