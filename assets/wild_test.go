package assets

import (
	"testing"

	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/stretchr/testify/require"
)

func TestAllAssetsMatchesEverything(t *testing.T) {
	w := &AllAssets{}
	for _, concrete := range []*MultiAsset{
		fungible(t, testConcreteID(1), 5),
		fungible(t, testAbstractID(1, 2), 1),
		nonFungibleIdx(testConcreteID(2), 7),
		NewNonFungibleAsset(testAbstractID(3), &UndefinedInstance{}),
		NewNonFungibleAsset(testConcreteID(4), &BlobInstance{Blob: []byte{1}}),
	} {
		require.True(t, w.Matches(concrete))
	}
}

func TestAllAssetsOfMatchesByClassAndKind(t *testing.T) {
	id := testConcreteID(1)
	w := &AllAssetsOf{ID: id, Fungibility: WildFungible}

	// fungible kind matches any amount of the class
	require.True(t, w.Matches(fungible(t, id, 5)))
	require.True(t, w.Matches(fungible(t, id, 999)))
	// non-fungible occurrences of the same class do not match
	require.False(t, w.Matches(nonFungibleIdx(id, 1)))
	// other classes do not match
	require.False(t, w.Matches(fungible(t, testConcreteID(2), 5)))
	require.False(t, w.Matches(fungible(t, testAbstractID(1), 5)))

	nf := &AllAssetsOf{ID: id, Fungibility: WildNonFungible}
	// non-fungible kind matches regardless of which instance
	require.True(t, nf.Matches(nonFungibleIdx(id, 1)))
	require.True(t, nf.Matches(NewNonFungibleAsset(id, &UndefinedInstance{})))
	require.False(t, nf.Matches(fungible(t, id, 1)))
}

func TestWildAssetRoundTrip(t *testing.T) {
	wilds := []WildAsset{
		&AllAssets{},
		&AllAssetsOf{ID: testConcreteID(7), Fungibility: WildNonFungible},
		&AllAssetsOf{ID: testAbstractID(1, 2, 3), Fungibility: WildFungible},
	}
	for _, w := range wilds {
		data := lexicalBytes(w)
		require.NotEmpty(t, data)

		decoded, err := WildAssetSelector(uint32(data[0]))
		require.NoError(t, err)
		consumed, err := decoded.Deserialize(data, serializer.DeSeriModePerformValidation, nil)
		require.NoError(t, err)
		require.Equal(t, len(data), consumed)
		require.Equal(t, data, lexicalBytes(decoded))
	}
}

func TestWildAssetSelectorRejectsUnknownType(t *testing.T) {
	_, err := WildAssetSelector(99)
	require.ErrorIs(t, err, ErrUnknownVariant)
}
