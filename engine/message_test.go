package engine

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/serializer/v2"
	iotago "github.com/iotaledger/iota.go/v3"
	"github.com/stretchr/testify/require"

	"xcasset/assets"
)

func testAddr(fill byte) iotago.Address {
	addr := &iotago.Ed25519Address{}
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func testConcreteID(fill byte) assets.AssetID {
	return &assets.ConcreteAssetID{Location: testAddr(fill)}
}

func fungible(t *testing.T, id assets.AssetID, amount int64) *assets.MultiAsset {
	t.Helper()
	asset, err := assets.NewFungibleAsset(id, big.NewInt(amount))
	require.NoError(t, err)
	return asset
}

func nonFungibleIdx(id assets.AssetID, idx int64) *assets.MultiAsset {
	return assets.NewNonFungibleAsset(id, &assets.IndexInstance{Index: big.NewInt(idx)})
}

func TestTransferMessageRoundTrip(t *testing.T) {
	withdrawn, err := assets.NewMultiAssetsFromUnsorted(
		fungible(t, testConcreteID(1), 100),
		nonFungibleIdx(testConcreteID(2), 7),
	)
	require.NoError(t, err)

	msg := &TransferMessage{
		Origin: testAddr(0xaa),
		Instructions: Instructions{
			&WithdrawInstruction{Assets: withdrawn},
			&PayFeeInstruction{Filter: &assets.WildcardFilter{Wild: &assets.AllAssetsOf{ID: testConcreteID(1), Fungibility: assets.WildFungible}}},
			&DepositInstruction{Filter: &assets.WildcardFilter{Wild: &assets.AllAssets{}}, Beneficiary: testAddr(0xbb)},
		},
	}

	data, err := msg.Bytes(nil)
	require.NoError(t, err)

	parsed, err := TransferMessageFromBytes(data, nil)
	require.NoError(t, err)
	require.Len(t, parsed.Instructions, 3)

	reData, err := parsed.Bytes(nil)
	require.NoError(t, err)
	require.Equal(t, data, reData)

	id1, err := msg.ID()
	require.NoError(t, err)
	id2, err := parsed.ID()
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestTransferMessageRejectsUnknownVersion(t *testing.T) {
	msg := &TransferMessage{
		Origin: testAddr(1),
		Instructions: Instructions{
			&PayFeeInstruction{Filter: &assets.WildcardFilter{Wild: &assets.AllAssets{}}},
		},
	}
	data, err := msg.Bytes(nil)
	require.NoError(t, err)

	data[0] = MessageVersion + 1
	_, err = TransferMessageFromBytes(data, nil)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestTransferMessageRejectsUnknownInstruction(t *testing.T) {
	msg := &TransferMessage{
		Origin: testAddr(1),
		Instructions: Instructions{
			&PayFeeInstruction{Filter: &assets.WildcardFilter{Wild: &assets.AllAssets{}}},
		},
	}
	data, err := msg.Bytes(nil)
	require.NoError(t, err)

	// version + address union + instruction count, then the first type byte
	insTypeOffset := 1 + 1 + iotago.Ed25519AddressBytesLength + 1
	data[insTypeOffset] = 0xff
	_, err = TransferMessageFromBytes(data, nil)
	require.ErrorIs(t, err, ErrUnknownInstruction)
}

func TestTransferMessageRejectsTrailingBytes(t *testing.T) {
	msg := &TransferMessage{
		Origin: testAddr(1),
		Instructions: Instructions{
			&PayFeeInstruction{Filter: &assets.WildcardFilter{Wild: &assets.AllAssets{}}},
		},
	}
	data, err := msg.Bytes(nil)
	require.NoError(t, err)

	_, err = TransferMessageFromBytes(append(data, 0x00), nil)
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func TestTransferMessageIDUnderWiderLimits(t *testing.T) {
	limits := &assets.Limits{
		MaxAbstractTagLength: 64,
		MaxBlobLength:        128,
		MaxAssetCount:        128,
	}
	// a 40 byte tag only fits the configured limits, not the defaults
	longTag := &assets.AbstractAssetID{Tag: bytes.Repeat([]byte{0x07}, 40)}
	withdrawn, err := assets.NewMultiAssetsFromUnsorted(fungible(t, longTag, 5))
	require.NoError(t, err)

	msg := &TransferMessage{
		Origin: testAddr(1),
		Instructions: Instructions{
			&WithdrawInstruction{Assets: withdrawn},
		},
	}
	data, err := msg.Bytes(limits)
	require.NoError(t, err)
	parsed, err := TransferMessageFromBytes(data, limits)
	require.NoError(t, err)

	id1, err := msg.ID()
	require.NoError(t, err)
	id2, err := parsed.ID()
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestTransferMessageRejectsNonCanonicalWithdraw(t *testing.T) {
	a := fungible(t, testConcreteID(9), 10)
	b := fungible(t, testConcreteID(1), 20)
	unsorted := assets.MultiAssets{a, b}
	if a.Compare(b) < 0 {
		unsorted = assets.MultiAssets{b, a}
	}

	msg := &TransferMessage{
		Origin: testAddr(1),
		Instructions: Instructions{
			&WithdrawInstruction{Assets: unsorted},
		},
	}
	data, err := msg.Serialize(serializer.DeSeriModeNoValidation, assets.DefaultLimits)
	require.NoError(t, err)

	_, err = TransferMessageFromBytes(data, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, assets.ErrInvalidOrDuplicateAsset))
}
