package assets

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/iotaledger/hive.go/serializer/v2"
)

// MultiAsset is the atomic asset description, an asset class paired with either
// a fungible amount or a specific non-fungible instance. Values are treated as
// immutable once built, with the single exception of rewriting the location
// inside the asset ID under a different frame of reference, which never touches
// the fungibility side.
type MultiAsset struct {
	// ID identifies the asset class.
	ID AssetID
	// Fun carries the fungible amount or the non-fungible instance.
	Fun Fungibility
}

// NewFungibleAsset builds a MultiAsset carrying an amount of the given class.
func NewFungibleAsset(id AssetID, amount *big.Int) (*MultiAsset, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("unable to build fungible asset: %w", ErrInvalidAssetAmount)
	}
	if amount.BitLen() > 128 {
		return nil, fmt.Errorf("unable to build fungible asset: %w", ErrAmountOverflow)
	}
	return &MultiAsset{ID: id, Fun: &FungibleAmount{Amount: new(big.Int).Set(amount)}}, nil
}

// NewNonFungibleAsset builds a MultiAsset carrying one specific unit of the given class.
func NewNonFungibleAsset(id AssetID, instance AssetInstance) *MultiAsset {
	return &MultiAsset{ID: id, Fun: &NonFungibleInstance{Instance: instance}}
}

// Clone returns a deep copy of the asset.
func (m *MultiAsset) Clone() *MultiAsset {
	return &MultiAsset{ID: m.ID.Clone(), Fun: m.Fun.Clone()}
}

// orderingKey is the total-order key of the asset: its wire bytes with the
// 128 bit amount and index payloads flipped to big endian, so lexical key
// comparison and numeric payload comparison coincide.
func (m *MultiAsset) orderingKey() []byte {
	key := append([]byte{}, lexicalBytes(m.ID)...)
	switch f := m.Fun.(type) {
	case *FungibleAmount:
		key = append(key, byte(FungibilityFungible))
		key = append(key, uint128OrderingBytes(f.Amount)...)
	case *NonFungibleInstance:
		key = append(key, byte(FungibilityNonFungible))
		if idx, ok := f.Instance.(*IndexInstance); ok {
			key = append(key, byte(InstanceIndex))
			key = append(key, uint128OrderingBytes(idx.Index)...)
		} else {
			key = append(key, lexicalBytes(f.Instance)...)
		}
	}
	return key
}

// Compare orders assets tag-major and payload-minor on (AssetID, Fungibility),
// with numeric order on fungible amounts and index instances. The decoder
// enforces the same relation on collections, so in-memory order and wire
// canonical order can not diverge.
func (m *MultiAsset) Compare(other *MultiAsset) int {
	return bytes.Compare(m.orderingKey(), other.orderingKey())
}

// Equal tells whether two assets are equal by value.
func (m *MultiAsset) Equal(other *MultiAsset) bool {
	return m.Compare(other) == 0
}

func (m *MultiAsset) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		ReadObject(&m.ID, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, assetIDReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize asset ID: %w", err)
		}).
		ReadObject(&m.Fun, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, fungibilityReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize asset fungibility: %w", err)
		}).
		Done()
}

func (m *MultiAsset) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteObject(m.ID, deSeriMode, deSeriCtx, assetIDWriteGuard, func(err error) error {
			return fmt.Errorf("unable to serialize asset ID: %w", err)
		}).
		WriteObject(m.Fun, deSeriMode, deSeriCtx, func(seri serializer.Serializable) error {
			if seri == nil {
				return fmt.Errorf("%w: asset fungibility must be set", ErrUnknownVariant)
			}
			return nil
		}, func(err error) error {
			return fmt.Errorf("unable to serialize asset fungibility: %w", err)
		}).
		Serialize()
}
