package assets

import (
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/stretchr/testify/require"
)

// rawCollectionBytes encodes a collection without validation, used to craft
// non canonical wire fixtures.
func rawCollectionBytes(t *testing.T, col MultiAssets) []byte {
	t.Helper()
	data, err := serializer.NewSerializer().
		WriteSliceOfObjects(&col, serializer.DeSeriModeNoValidation, nil, serializer.SeriLengthPrefixTypeAsByte, CollectionArrayRules(DefaultLimits), func(err error) error {
			return err
		}).
		Serialize()
	require.NoError(t, err)
	return data
}

func TestNewMultiAssetsFromSorted(t *testing.T) {
	a := fungible(t, testConcreteID(1), 1)
	b := fungible(t, testConcreteID(2), 1)
	require.Equal(t, -1, a.Compare(b))

	col, err := NewMultiAssetsFromSorted(a, b)
	require.NoError(t, err)
	require.Len(t, col, 2)

	// wrong order is rejected, never repaired
	_, err = NewMultiAssetsFromSorted(b, a)
	require.ErrorIs(t, err, ErrInvalidOrDuplicateAsset)
}

func TestNewMultiAssetsFromSortedRejectsDuplicateFungibleClass(t *testing.T) {
	id := testAbstractID(5)
	a := fungible(t, id, 1)
	b := fungible(t, id, 2)
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	_, err := NewMultiAssetsFromSorted(a, b)
	require.ErrorIs(t, err, ErrInvalidOrDuplicateAsset)
}

func TestNewMultiAssetsFromUnsortedMerges(t *testing.T) {
	id := testConcreteID(3)
	col, err := NewMultiAssetsFromUnsorted(
		fungible(t, testConcreteID(9), 7),
		fungible(t, id, 10),
		nonFungibleIdx(id, 4),
		fungible(t, id, 5),
		nonFungibleIdx(id, 4),
	)
	require.NoError(t, err)
	require.Len(t, col, 3)
	require.NoError(t, col.ValidateCanonical())
	require.True(t, col.Contains(fungible(t, id, 15)))
	require.True(t, col.Contains(nonFungibleIdx(id, 4)))
	require.True(t, col.Contains(fungible(t, testConcreteID(9), 7)))
}

func TestNewMultiAssetsFromUnsortedIsIdempotent(t *testing.T) {
	in := []*MultiAsset{
		fungible(t, testAbstractID(2), 3),
		nonFungibleIdx(testConcreteID(1), 7),
		fungible(t, testConcreteID(4), 11),
	}
	once, err := NewMultiAssetsFromUnsorted(in...)
	require.NoError(t, err)
	twice, err := NewMultiAssetsFromUnsorted(once...)
	require.NoError(t, err)
	require.Len(t, twice, len(once))
	for i := range once {
		require.True(t, once[i].Equal(twice[i]))
	}
}

func TestPushMergesFungibleAmounts(t *testing.T) {
	id := testConcreteID(1)
	col, err := NewMultiAssetsFromUnsorted(fungible(t, id, 10))
	require.NoError(t, err)

	require.NoError(t, col.Push(fungible(t, id, 32)))
	require.Len(t, col, 1)
	require.True(t, col.Contains(fungible(t, id, 42)))
}

func TestPushOverflowFails(t *testing.T) {
	id := testConcreteID(1)
	max, err := NewFungibleAsset(id, MaxUint128)
	require.NoError(t, err)
	col, err := NewMultiAssetsFromUnsorted(max)
	require.NoError(t, err)

	err = col.Push(fungible(t, id, 1))
	require.ErrorIs(t, err, ErrAmountOverflow)

	// no silent wraparound, the held amount is untouched
	require.True(t, col.Contains(max))
}

func TestFromUnsortedOverflowFails(t *testing.T) {
	id := testAbstractID(1)
	max, err := NewFungibleAsset(id, MaxUint128)
	require.NoError(t, err)
	_, err = NewMultiAssetsFromUnsorted(max, fungible(t, id, 1))
	require.ErrorIs(t, err, ErrAmountOverflow)
}

func TestContainsAll(t *testing.T) {
	col, err := NewMultiAssetsFromUnsorted(
		fungible(t, testConcreteID(1), 5),
		fungible(t, testConcreteID(2), 6),
		nonFungibleIdx(testConcreteID(3), 1),
	)
	require.NoError(t, err)

	sub, err := NewMultiAssetsFromUnsorted(fungible(t, testConcreteID(1), 5), nonFungibleIdx(testConcreteID(3), 1))
	require.NoError(t, err)
	require.True(t, col.ContainsAll(sub))

	// amounts must match exactly, containment is not a >= test
	other, err := NewMultiAssetsFromUnsorted(fungible(t, testConcreteID(1), 4))
	require.NoError(t, err)
	require.False(t, col.ContainsAll(other))
}

func TestMultiAssetsCanonicalRoundTrip(t *testing.T) {
	col, err := NewMultiAssetsFromUnsorted(
		fungible(t, testConcreteID(1), 5),
		fungible(t, testAbstractID(1, 2, 3), 7),
		nonFungibleIdx(testConcreteID(1), 9),
		NewNonFungibleAsset(testAbstractID(8), &Array32Instance{Key: [32]byte{1, 2}}),
		NewNonFungibleAsset(testConcreteID(2), &BlobInstance{Blob: []byte{0xca, 0xfe}}),
	)
	require.NoError(t, err)

	data, err := col.Bytes(nil)
	require.NoError(t, err)

	decoded, consumed, err := MultiAssetsFromBytes(data, nil)
	require.NoError(t, err)
	require.Equal(t, len(data), consumed)
	require.Len(t, decoded, len(col))

	// encode(decode(bytes)) == bytes, decode never renormalizes
	reencoded, err := decoded.Bytes(nil)
	require.NoError(t, err)
	require.Equal(t, data, reencoded)
}

func TestDecodeRejectsUnsortedSequence(t *testing.T) {
	a := fungible(t, testConcreteID(1), 1)
	b := fungible(t, testConcreteID(2), 1)
	data := rawCollectionBytes(t, MultiAssets{b, a})

	_, _, err := MultiAssetsFromBytes(data, nil)
	require.ErrorIs(t, err, ErrInvalidOrDuplicateAsset)
}

func TestDecodeUsesNumericIndexOrder(t *testing.T) {
	classN := testConcreteID(1)
	low := nonFungibleIdx(classN, 1)
	high := nonFungibleIdx(classN, 256)

	// numeric ascending order is canonical and round-trips
	col, err := NewMultiAssetsFromSorted(low, high)
	require.NoError(t, err)
	data, err := col.Bytes(nil)
	require.NoError(t, err)
	decoded, _, err := MultiAssetsFromBytes(data, nil)
	require.NoError(t, err)
	require.True(t, decoded[0].Equal(low))
	require.True(t, decoded[1].Equal(high))

	// the numerically descending sequence is rejected even though the little
	// endian wire bytes of 256 sort below those of 1
	_, err = NewMultiAssetsFromSorted(high, low)
	require.ErrorIs(t, err, ErrInvalidOrDuplicateAsset)
	_, _, err = MultiAssetsFromBytes(rawCollectionBytes(t, MultiAssets{high, low}), nil)
	require.ErrorIs(t, err, ErrInvalidOrDuplicateAsset)
}

func TestDecodeRejectsDuplicateFungibleClass(t *testing.T) {
	id := testAbstractID(5)
	a := fungible(t, id, 1)
	b := fungible(t, id, 2)
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	data := rawCollectionBytes(t, MultiAssets{a, b})

	_, _, err := MultiAssetsFromBytes(data, nil)
	require.ErrorIs(t, err, ErrInvalidOrDuplicateAsset)
}

func TestDecodeRejectsOversizedAbstractTag(t *testing.T) {
	limits := &Limits{MaxAbstractTagLength: 4, MaxBlobLength: 16, MaxAssetCount: 8}
	tag := make([]byte, limits.MaxAbstractTagLength+1)
	col := MultiAssets{fungible(t, &AbstractAssetID{Tag: tag}, 1)}
	data := rawCollectionBytes(t, col)

	_, _, err := MultiAssetsFromBytes(data, limits)
	require.ErrorIs(t, err, ErrLengthExceeded)

	// one byte below the cap passes
	okCol := MultiAssets{fungible(t, &AbstractAssetID{Tag: tag[:limits.MaxAbstractTagLength]}, 1)}
	_, _, err = MultiAssetsFromBytes(rawCollectionBytes(t, okCol), limits)
	require.NoError(t, err)
}

func TestDecodeRejectsOversizedBlob(t *testing.T) {
	limits := &Limits{MaxAbstractTagLength: 4, MaxBlobLength: 8, MaxAssetCount: 8}
	blob := make([]byte, limits.MaxBlobLength+1)
	col := MultiAssets{NewNonFungibleAsset(testConcreteID(1), &BlobInstance{Blob: blob})}
	data := rawCollectionBytes(t, col)

	_, _, err := MultiAssetsFromBytes(data, limits)
	require.ErrorIs(t, err, ErrLengthExceeded)
}

func TestDecodeRejectsZeroFungibleAmount(t *testing.T) {
	zero := &MultiAsset{ID: testConcreteID(1), Fun: &FungibleAmount{Amount: big.NewInt(0)}}
	data := rawCollectionBytes(t, MultiAssets{zero})

	_, _, err := MultiAssetsFromBytes(data, nil)
	require.ErrorIs(t, err, ErrInvalidAssetAmount)
}

func TestEmptyCollectionRoundTrip(t *testing.T) {
	col, err := NewMultiAssetsFromSorted()
	require.NoError(t, err)
	data, err := col.Bytes(nil)
	require.NoError(t, err)
	decoded, _, err := MultiAssetsFromBytes(data, nil)
	require.NoError(t, err)
	require.Empty(t, decoded)
}
