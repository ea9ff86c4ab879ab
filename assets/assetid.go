package assets

import (
	"bytes"
	"fmt"

	"github.com/iotaledger/hive.go/serializer/v2"
	iotago "github.com/iotaledger/iota.go/v3"
)

// AssetIDType denotes the kind of an asset class identifier.
type AssetIDType byte

const (
	// AssetIDConcrete denotes an asset class identified by a ledger location.
	AssetIDConcrete AssetIDType = iota
	// AssetIDAbstract denotes an asset class identified by an opaque byte tag.
	AssetIDAbstract
)

// AssetID identifies a class of assets.
type AssetID interface {
	serializer.Serializable

	// Type returns the kind of the asset ID.
	Type() AssetIDType
	// Clone returns a deep copy of the asset ID.
	Clone() AssetID
}

// AssetIDSelector implements SerializableSelectorFunc for asset ID types.
func AssetIDSelector(idType uint32) (AssetID, error) {
	switch AssetIDType(idType) {
	case AssetIDConcrete:
		return &ConcreteAssetID{}, nil
	case AssetIDAbstract:
		return &AbstractAssetID{}, nil
	default:
		return nil, fmt.Errorf("%w: asset ID type %d", ErrUnknownVariant, idType)
	}
}

func assetIDReadGuard(ty uint32) (serializer.Serializable, error) {
	return AssetIDSelector(ty)
}

func assetIDWriteGuard(seri serializer.Serializable) error {
	switch seri.(type) {
	case *ConcreteAssetID, *AbstractAssetID:
		return nil
	default:
		return fmt.Errorf("%w: asset ID", ErrUnknownVariant)
	}
}

// AssetIDsEqual tells whether two asset IDs select the same asset class.
func AssetIDsEqual(a, b AssetID) bool {
	if a.Type() != b.Type() {
		return false
	}
	return bytes.Equal(lexicalBytes(a), lexicalBytes(b))
}

// lexicalBytes returns the canonical wire bytes of a value, used for equality
// and as the ordering key of types without numeric payloads.
func lexicalBytes(seri serializer.Serializable) []byte {
	b, err := seri.Serialize(serializer.DeSeriModeNoValidation, nil)
	if err != nil {
		return nil
	}
	return b
}

// ConcreteAssetID identifies an asset class by the ledger location it originates from.
type ConcreteAssetID struct {
	// Location is the opaque location handle. Its internal structure is never
	// inspected here beyond its wire bytes, it only needs to compare and encode.
	Location iotago.Address
}

func (c *ConcreteAssetID) Type() AssetIDType {
	return AssetIDConcrete
}

func (c *ConcreteAssetID) Clone() AssetID {
	return &ConcreteAssetID{Location: c.Location.Clone()}
}

func (c *ConcreteAssetID) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip concrete asset ID type byte: %w", err)
		}).
		ReadObject(&c.Location, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, func(ty uint32) (serializer.Serializable, error) {
			return iotago.AddressSelector(ty)
		}, func(err error) error {
			return fmt.Errorf("unable to deserialize location of concrete asset ID: %w", err)
		}).
		Done()
}

func (c *ConcreteAssetID) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(AssetIDConcrete), func(err error) error {
			return fmt.Errorf("unable to serialize concrete asset ID type byte: %w", err)
		}).
		WriteObject(c.Location, deSeriMode, deSeriCtx, func(seri serializer.Serializable) error {
			if seri == nil {
				return fmt.Errorf("%w: concrete asset ID location must be set", ErrUnknownVariant)
			}
			return nil
		}, func(err error) error {
			return fmt.Errorf("unable to serialize location of concrete asset ID: %w", err)
		}).
		Serialize()
}

// AbstractAssetID identifies an asset class by an opaque byte tag agreed between consensus systems.
type AbstractAssetID struct {
	// Tag is the opaque identifier, bounded by Limits.MaxAbstractTagLength.
	Tag []byte
}

func (a *AbstractAssetID) Type() AssetIDType {
	return AssetIDAbstract
}

func (a *AbstractAssetID) Clone() AssetID {
	tag := make([]byte, len(a.Tag))
	copy(tag, a.Tag)
	return &AbstractAssetID{Tag: tag}
}

func (a *AbstractAssetID) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	limits := LimitsFromContext(deSeriCtx)
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip abstract asset ID type byte: %w", err)
		}).
		ReadVariableByteSlice(&a.Tag, serializer.SeriLengthPrefixTypeAsByte, func(err error) error {
			return fmt.Errorf("unable to deserialize abstract asset ID tag: %w", err)
		}, 0, 255).
		AbortIf(func(err error) error {
			if len(a.Tag) > limits.MaxAbstractTagLength {
				return fmt.Errorf("abstract asset ID tag is %d bytes, max is %d: %w", len(a.Tag), limits.MaxAbstractTagLength, ErrLengthExceeded)
			}
			return nil
		}).
		Done()
}

func (a *AbstractAssetID) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	limits := LimitsFromContext(deSeriCtx)
	return serializer.NewSerializer().
		AbortIf(func(err error) error {
			if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) && len(a.Tag) > limits.MaxAbstractTagLength {
				return fmt.Errorf("abstract asset ID tag is %d bytes, max is %d: %w", len(a.Tag), limits.MaxAbstractTagLength, ErrLengthExceeded)
			}
			return nil
		}).
		WriteNum(byte(AssetIDAbstract), func(err error) error {
			return fmt.Errorf("unable to serialize abstract asset ID type byte: %w", err)
		}).
		WriteVariableByteSlice(a.Tag, serializer.SeriLengthPrefixTypeAsByte, func(err error) error {
			return fmt.Errorf("unable to serialize abstract asset ID tag: %w", err)
		}, 0, 255).
		Serialize()
}
