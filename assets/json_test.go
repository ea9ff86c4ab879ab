package assets

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func jsonRoundTripAsset(t *testing.T, asset *MultiAsset) {
	data, err := json.Marshal(asset)
	require.NoError(t, err)
	decoded := &MultiAsset{}
	require.NoError(t, json.Unmarshal(data, decoded))
	require.True(t, decoded.Equal(asset))
}

func TestMultiAssetJSONRoundTrip(t *testing.T) {
	concrete := testConcreteID(3)
	abstract := testAbstractID(0xde, 0xad, 0xbe, 0xef)

	jsonRoundTripAsset(t, fungible(t, concrete, 1_000_000))
	jsonRoundTripAsset(t, fungible(t, abstract, 7))
	jsonRoundTripAsset(t, NewNonFungibleAsset(concrete, &UndefinedInstance{}))
	jsonRoundTripAsset(t, nonFungibleIdx(concrete, 256))
	jsonRoundTripAsset(t, NewNonFungibleAsset(abstract, &Array8Instance{Key: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}))
	jsonRoundTripAsset(t, NewNonFungibleAsset(concrete, &Array32Instance{Key: [32]byte{0xff}}))
	jsonRoundTripAsset(t, NewNonFungibleAsset(concrete, &BlobInstance{Blob: []byte("ticket-0042")}))

	// the full 128 bit range survives the decimal string encoding
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	huge, err := NewFungibleAsset(abstract, max)
	require.NoError(t, err)
	jsonRoundTripAsset(t, huge)
}

func TestMultiAssetJSONRejectsBadPayloads(t *testing.T) {
	// unknown discriminators fail the selector dispatch
	_, err := assetIDFromJSON(json.RawMessage(`{"type":9}`))
	require.Error(t, err)

	// amounts outside the 128 bit range are rejected
	bad := &MultiAsset{}
	err = json.Unmarshal([]byte(`{"id":{"type":1,"tag":"0x01"},"fungibility":{"type":0,"amount":"-5"}}`), bad)
	require.ErrorIs(t, err, ErrAmountOverflow)

	// array instance keys must carry exactly the declared width
	inst := &Array4Instance{}
	require.Error(t, json.Unmarshal([]byte(`{"type":2,"key":"0x0102"}`), inst))
}

func TestFilterJSONRoundTrip(t *testing.T) {
	classN := testConcreteID(1)
	col, err := NewMultiAssetsFromUnsorted(fungible(t, classN, 10), nonFungibleIdx(classN, 3))
	require.NoError(t, err)

	data, err := json.Marshal(&DefiniteFilter{Assets: col})
	require.NoError(t, err)
	filter, err := FilterFromJSON(data)
	require.NoError(t, err)
	definite, ok := filter.(*DefiniteFilter)
	require.True(t, ok)
	require.Len(t, definite.Assets, len(col))
	for i, asset := range col {
		require.True(t, definite.Assets[i].Equal(asset))
	}

	data, err = json.Marshal(&WildcardFilter{Wild: &AllAssetsOf{ID: classN, Fungibility: WildNonFungible}})
	require.NoError(t, err)
	filter, err = FilterFromJSON(data)
	require.NoError(t, err)
	wildcard, ok := filter.(*WildcardFilter)
	require.True(t, ok)
	allOf, ok := wildcard.Wild.(*AllAssetsOf)
	require.True(t, ok)
	require.True(t, AssetIDsEqual(allOf.ID, classN))
	require.Equal(t, WildNonFungible, allOf.Fungibility)
}
