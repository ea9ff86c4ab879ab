package assets

import (
	"fmt"

	"github.com/iotaledger/hive.go/serializer/v2"
)

// WildFungibility is a fungibility class tag without payload, used by wildcards.
type WildFungibility byte

const (
	// WildFungible selects fungible occurrences regardless of amount.
	WildFungible WildFungibility = iota
	// WildNonFungible selects non-fungible occurrences regardless of instance.
	WildNonFungible
)

// WildAssetType denotes the kind of a wildcard asset description.
type WildAssetType byte

const (
	// WildAssetAll denotes the wildcard matching every asset.
	WildAssetAll WildAssetType = iota
	// WildAssetAllOf denotes the wildcard matching every asset of one class and fungibility kind.
	WildAssetAllOf
)

// WildAsset describes a class of assets rather than one specific asset.
type WildAsset interface {
	serializer.Serializable

	// Type returns the kind of the wildcard.
	Type() WildAssetType
	// Matches tells whether the wildcard covers the given concrete asset.
	Matches(concrete *MultiAsset) bool
	// Clone returns a deep copy of the wildcard.
	Clone() WildAsset
}

// WildAssetSelector implements SerializableSelectorFunc for wildcard types.
func WildAssetSelector(wildType uint32) (WildAsset, error) {
	switch WildAssetType(wildType) {
	case WildAssetAll:
		return &AllAssets{}, nil
	case WildAssetAllOf:
		return &AllAssetsOf{}, nil
	default:
		return nil, fmt.Errorf("%w: wildcard type %d", ErrUnknownVariant, wildType)
	}
}

func wildAssetReadGuard(ty uint32) (serializer.Serializable, error) {
	return WildAssetSelector(ty)
}

// AllAssets is the wildcard matching every asset.
type AllAssets struct{}

func (w *AllAssets) Type() WildAssetType {
	return WildAssetAll
}

func (w *AllAssets) Matches(concrete *MultiAsset) bool {
	return true
}

func (w *AllAssets) Clone() WildAsset {
	return &AllAssets{}
}

func (w *AllAssets) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip all assets wildcard type byte: %w", err)
		}).
		Done()
}

func (w *AllAssets) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(WildAssetAll), func(err error) error {
			return fmt.Errorf("unable to serialize all assets wildcard type byte: %w", err)
		}).
		Serialize()
}

// AllAssetsOf is the wildcard matching every asset of one class whose
// fungibility kind equals the given one.
type AllAssetsOf struct {
	// ID is the asset class to match.
	ID AssetID
	// Fungibility is the fungibility kind to match, amounts and instances are ignored.
	Fungibility WildFungibility
}

func (w *AllAssetsOf) Type() WildAssetType {
	return WildAssetAllOf
}

func (w *AllAssetsOf) Matches(concrete *MultiAsset) bool {
	if !AssetIDsEqual(w.ID, concrete.ID) {
		return false
	}
	switch w.Fungibility {
	case WildFungible:
		return concrete.Fun.Type() == FungibilityFungible
	case WildNonFungible:
		return concrete.Fun.Type() == FungibilityNonFungible
	default:
		return false
	}
}

func (w *AllAssetsOf) Clone() WildAsset {
	return &AllAssetsOf{ID: w.ID.Clone(), Fungibility: w.Fungibility}
}

func (w *AllAssetsOf) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	var wildFun byte
	n, err := serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip all assets of wildcard type byte: %w", err)
		}).
		ReadObject(&w.ID, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, assetIDReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize asset ID of wildcard: %w", err)
		}).
		ReadNum(&wildFun, func(err error) error {
			return fmt.Errorf("unable to deserialize fungibility kind of wildcard: %w", err)
		}).
		Done()
	if err != nil {
		return 0, err
	}
	if wildFun != byte(WildFungible) && wildFun != byte(WildNonFungible) {
		return 0, fmt.Errorf("%w: wildcard fungibility kind %d", ErrUnknownVariant, wildFun)
	}
	w.Fungibility = WildFungibility(wildFun)
	return n, nil
}

func (w *AllAssetsOf) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(WildAssetAllOf), func(err error) error {
			return fmt.Errorf("unable to serialize all assets of wildcard type byte: %w", err)
		}).
		WriteObject(w.ID, deSeriMode, deSeriCtx, assetIDWriteGuard, func(err error) error {
			return fmt.Errorf("unable to serialize asset ID of wildcard: %w", err)
		}).
		WriteNum(byte(w.Fungibility), func(err error) error {
			return fmt.Errorf("unable to serialize fungibility kind of wildcard: %w", err)
		}).
		Serialize()
}
