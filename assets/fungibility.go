package assets

import (
	"fmt"
	"math/big"

	"github.com/iotaledger/hive.go/serializer/v2"
)

// FungibilityType denotes whether an asset occurrence is a fungible amount or a
// specific non-fungible instance.
type FungibilityType byte

const (
	// FungibilityFungible denotes an interchangeable amount of the asset class.
	FungibilityFungible FungibilityType = iota
	// FungibilityNonFungible denotes one specific unit of the asset class.
	FungibilityNonFungible
)

// Fungibility tags an asset class occurrence with either an amount or an instance.
type Fungibility interface {
	serializer.Serializable

	// Type returns the fungibility kind.
	Type() FungibilityType
	// Clone returns a deep copy of the fungibility.
	Clone() Fungibility
}

// FungibilitySelector implements SerializableSelectorFunc for fungibility types.
func FungibilitySelector(funType uint32) (Fungibility, error) {
	switch FungibilityType(funType) {
	case FungibilityFungible:
		return &FungibleAmount{}, nil
	case FungibilityNonFungible:
		return &NonFungibleInstance{}, nil
	default:
		return nil, fmt.Errorf("%w: fungibility type %d", ErrUnknownVariant, funType)
	}
}

func fungibilityReadGuard(ty uint32) (serializer.Serializable, error) {
	return FungibilitySelector(ty)
}

// FungibleAmount represents an interchangeable quantity of an asset class.
type FungibleAmount struct {
	// Amount is the unsigned 128 bit quantity, it must be greater than zero.
	Amount *big.Int
}

func (f *FungibleAmount) Type() FungibilityType {
	return FungibilityFungible
}

func (f *FungibleAmount) Clone() Fungibility {
	return &FungibleAmount{Amount: new(big.Int).Set(f.Amount)}
}

func (f *FungibleAmount) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	buf := make([]byte, Uint128ByteSize)
	n, err := serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip fungible amount type byte: %w", err)
		}).
		ReadBytesInPlace(buf, func(err error) error {
			return fmt.Errorf("unable to deserialize fungible amount: %w", err)
		}).
		Done()
	if err != nil {
		return 0, err
	}
	f.Amount = uint128FromBytes(buf)
	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) && f.Amount.Sign() == 0 {
		return 0, fmt.Errorf("unable to deserialize fungible amount: %w", ErrInvalidAssetAmount)
	}
	return n, nil
}

func (f *FungibleAmount) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) && (f.Amount == nil || f.Amount.Sign() <= 0) {
		return nil, fmt.Errorf("unable to serialize fungible amount: %w", ErrInvalidAssetAmount)
	}
	amount, err := uint128ToBytes(f.Amount)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize fungible amount: %w", err)
	}
	return serializer.NewSerializer().
		WriteNum(byte(FungibilityFungible), func(err error) error {
			return fmt.Errorf("unable to serialize fungible amount type byte: %w", err)
		}).
		WriteBytes(amount, func(err error) error {
			return fmt.Errorf("unable to serialize fungible amount: %w", err)
		}).
		Serialize()
}

// NonFungibleInstance represents one specific unit of an asset class.
type NonFungibleInstance struct {
	// Instance identifies the unit within its class.
	Instance AssetInstance
}

func (nf *NonFungibleInstance) Type() FungibilityType {
	return FungibilityNonFungible
}

func (nf *NonFungibleInstance) Clone() Fungibility {
	return &NonFungibleInstance{Instance: nf.Instance.Clone()}
}

func (nf *NonFungibleInstance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip non-fungible instance type byte: %w", err)
		}).
		ReadObject(&nf.Instance, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, assetInstanceReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize instance of non-fungible asset: %w", err)
		}).
		Done()
}

func (nf *NonFungibleInstance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(FungibilityNonFungible), func(err error) error {
			return fmt.Errorf("unable to serialize non-fungible instance type byte: %w", err)
		}).
		WriteObject(nf.Instance, deSeriMode, deSeriCtx, func(seri serializer.Serializable) error {
			if seri == nil {
				return fmt.Errorf("%w: non-fungible instance must be set", ErrUnknownVariant)
			}
			return nil
		}, func(err error) error {
			return fmt.Errorf("unable to serialize instance of non-fungible asset: %w", err)
		}).
		Serialize()
}
