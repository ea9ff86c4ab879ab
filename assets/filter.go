package assets

import (
	"errors"
	"fmt"

	"github.com/iotaledger/hive.go/serializer/v2"
)

// FilterType denotes the kind of an asset filter.
type FilterType byte

const (
	// FilterDefinite denotes a filter listing specific assets.
	FilterDefinite FilterType = iota
	// FilterWild denotes a filter described by a wildcard.
	FilterWild
)

// MultiAssetFilter decides whether a concrete asset is permitted, either by
// exact membership in a definite list or by a wildcard. No partial or fuzzy
// matching exists, a definite filter requires exact amount or instance
// equality. Callers needing at-least semantics compose them outside of this
// package from the matched class and the concretely available amount.
type MultiAssetFilter interface {
	serializer.Serializable

	// Type returns the kind of the filter.
	Type() FilterType
	// Matches tells whether the filter permits the given concrete asset.
	Matches(concrete *MultiAsset) bool
	// Clone returns a deep copy of the filter.
	Clone() MultiAssetFilter
}

// FilterSelector implements SerializableSelectorFunc for filter types.
func FilterSelector(filterType uint32) (MultiAssetFilter, error) {
	switch FilterType(filterType) {
	case FilterDefinite:
		return &DefiniteFilter{}, nil
	case FilterWild:
		return &WildcardFilter{}, nil
	default:
		return nil, fmt.Errorf("%w: filter type %d", ErrUnknownVariant, filterType)
	}
}

// FilterReadGuard implements SerializableReadGuardFunc for filter types.
func FilterReadGuard(ty uint32) (serializer.Serializable, error) {
	return FilterSelector(ty)
}

// FilterWriteGuard implements SerializableWriteGuardFunc for filter types.
func FilterWriteGuard(seri serializer.Serializable) error {
	switch seri.(type) {
	case *DefiniteFilter, *WildcardFilter:
		return nil
	default:
		return fmt.Errorf("%w: asset filter", ErrUnknownVariant)
	}
}

// DefiniteFilter permits exactly the assets of a canonical collection.
type DefiniteFilter struct {
	// Assets is the canonical list of permitted assets.
	Assets MultiAssets
}

func (f *DefiniteFilter) Type() FilterType {
	return FilterDefinite
}

// Matches tells whether concrete is equal by value to an element of the list.
// The amount of a fungible asset and the instance of a non-fungible asset must
// match exactly.
func (f *DefiniteFilter) Matches(concrete *MultiAsset) bool {
	return f.Assets.Contains(concrete)
}

func (f *DefiniteFilter) Clone() MultiAssetFilter {
	return &DefiniteFilter{Assets: f.Assets.Clone()}
}

func (f *DefiniteFilter) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	limits := LimitsFromContext(deSeriCtx)
	n, err := serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip definite filter type byte: %w", err)
		}).
		ReadSliceOfObjects(&f.Assets, deSeriMode, deSeriCtx, serializer.SeriLengthPrefixTypeAsByte, serializer.TypeDenotationNone, CollectionArrayRules(limits), func(err error) error {
			if errors.Is(err, serializer.ErrArrayValidationViolatesUniqueness) {
				err = fmt.Errorf("%v: %w", err, ErrInvalidOrDuplicateAsset)
			}
			return fmt.Errorf("unable to deserialize assets of definite filter: %w", err)
		}).
		Done()
	if err != nil {
		return 0, err
	}
	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err := f.Assets.ValidateCanonical(); err != nil {
			return 0, fmt.Errorf("unable to deserialize assets of definite filter: %w", err)
		}
	}
	return n, nil
}

func (f *DefiniteFilter) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	limits := LimitsFromContext(deSeriCtx)
	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err := f.Assets.ValidateCanonical(); err != nil {
			return nil, fmt.Errorf("unable to serialize assets of definite filter: %w", err)
		}
	}
	return serializer.NewSerializer().
		WriteNum(byte(FilterDefinite), func(err error) error {
			return fmt.Errorf("unable to serialize definite filter type byte: %w", err)
		}).
		WriteSliceOfObjects(&f.Assets, deSeriMode, deSeriCtx, serializer.SeriLengthPrefixTypeAsByte, CollectionArrayRules(limits), func(err error) error {
			return fmt.Errorf("unable to serialize assets of definite filter: %w", err)
		}).
		Serialize()
}

// WildcardFilter permits every asset covered by its wildcard.
type WildcardFilter struct {
	// Wild is the wildcard describing the permitted assets.
	Wild WildAsset
}

func (f *WildcardFilter) Type() FilterType {
	return FilterWild
}

func (f *WildcardFilter) Matches(concrete *MultiAsset) bool {
	return f.Wild.Matches(concrete)
}

func (f *WildcardFilter) Clone() MultiAssetFilter {
	return &WildcardFilter{Wild: f.Wild.Clone()}
}

func (f *WildcardFilter) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip wildcard filter type byte: %w", err)
		}).
		ReadObject(&f.Wild, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, wildAssetReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize wildcard of filter: %w", err)
		}).
		Done()
}

func (f *WildcardFilter) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(FilterWild), func(err error) error {
			return fmt.Errorf("unable to serialize wildcard filter type byte: %w", err)
		}).
		WriteObject(f.Wild, deSeriMode, deSeriCtx, func(seri serializer.Serializable) error {
			if seri == nil {
				return fmt.Errorf("%w: filter wildcard must be set", ErrUnknownVariant)
			}
			return nil
		}, func(err error) error {
			return fmt.Errorf("unable to serialize wildcard of filter: %w", err)
		}).
		Serialize()
}

// FilterFromBytes parses an asset filter from its wire encoding.
func FilterFromBytes(data []byte, limits *Limits) (MultiAssetFilter, int, error) {
	if limits == nil {
		limits = DefaultLimits
	}
	var filter MultiAssetFilter
	n, err := serializer.NewDeserializer(data).
		ReadObject(&filter, serializer.DeSeriModePerformValidation, limits, serializer.TypeDenotationByte, FilterReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize asset filter: %w", err)
		}).
		Done()
	if err != nil {
		return nil, 0, err
	}
	return filter, n, nil
}

// FilterBytes returns the wire encoding of an asset filter.
func FilterBytes(filter MultiAssetFilter, limits *Limits) ([]byte, error) {
	if limits == nil {
		limits = DefaultLimits
	}
	return filter.Serialize(serializer.DeSeriModePerformValidation, limits)
}
