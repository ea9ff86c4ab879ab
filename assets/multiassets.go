package assets

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/iotaledger/hive.go/serializer/v2"
)

// MultiAssets is a collection of assets in canonical form: strictly ascending
// order with at most one fungible entry per asset class. The canonical form is
// the only valid wire representation, decoding never sorts or deduplicates on
// behalf of the sender.
type MultiAssets []*MultiAsset

// CollectionArrayRules are the serializer rules applied to every encoded asset
// collection: bounded count, no duplicate elements. The ascending-order check
// lives in ValidateCanonical, which every decode path runs, because the order
// of 128 bit payloads is numeric rather than lexical on the wire bytes.
func CollectionArrayRules(limits *Limits) *serializer.ArrayRules {
	return &serializer.ArrayRules{
		Min: 0,
		Max: limits.MaxAssetCount,
		Guards: serializer.SerializableGuard{
			ReadGuard: func(ty uint32) (serializer.Serializable, error) {
				return &MultiAsset{}, nil
			},
			WriteGuard: func(seri serializer.Serializable) error {
				if _, ok := seri.(*MultiAsset); !ok {
					return fmt.Errorf("%w: expected a multi asset", ErrUnknownVariant)
				}
				return nil
			},
		},
		ValidationMode: serializer.ArrayValidationModeNoDuplicates,
	}
}

func (m MultiAssets) ToSerializables() serializer.Serializables {
	seris := make(serializer.Serializables, len(m))
	for i, x := range m {
		seris[i] = x
	}
	return seris
}

func (m *MultiAssets) FromSerializables(seris serializer.Serializables) {
	*m = make(MultiAssets, len(seris))
	for i, seri := range seris {
		(*m)[i] = seri.(*MultiAsset)
	}
}

// Clone returns a deep copy of the collection.
func (m MultiAssets) Clone() MultiAssets {
	out := make(MultiAssets, len(m))
	for i, a := range m {
		out[i] = a.Clone()
	}
	return out
}

// NewMultiAssetsFromSorted builds a collection from a sequence which must
// already be canonical. It fails with ErrInvalidOrDuplicateAsset otherwise and
// never reorders its input.
func NewMultiAssetsFromSorted(in ...*MultiAsset) (MultiAssets, error) {
	out := make(MultiAssets, len(in))
	copy(out, in)
	if err := out.ValidateCanonical(); err != nil {
		return nil, err
	}
	return out, nil
}

// NewMultiAssetsFromUnsorted builds a canonical collection from a sequence in
// any order. Fungible amounts for the same asset class are merged, identical
// non-fungible entries collapse to one. It only fails if a merged amount no
// longer fits into 128 bits or an amount is zero, never because of input order.
func NewMultiAssetsFromUnsorted(in ...*MultiAsset) (MultiAssets, error) {
	out := MultiAssets{}
	for _, a := range in {
		if err := out.Push(a); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Push inserts an asset keeping the collection canonical. A fungible entry for
// an already held class adds onto the held amount, a non-fungible entry equal
// to a held one is absorbed.
func (m *MultiAssets) Push(asset *MultiAsset) error {
	if f, ok := asset.Fun.(*FungibleAmount); ok {
		if f.Amount == nil || f.Amount.Sign() <= 0 {
			return fmt.Errorf("unable to push asset: %w", ErrInvalidAssetAmount)
		}
		if f.Amount.BitLen() > 128 {
			return fmt.Errorf("unable to push asset: %w", ErrAmountOverflow)
		}
		// a held fungible entry of the same class sorts right at the class prefix
		prefix := append(lexicalBytes(asset.ID), byte(FungibilityFungible))
		i := sort.Search(len(*m), func(i int) bool {
			return bytes.Compare((*m)[i].orderingKey(), prefix) >= 0
		})
		if i < len(*m) && bytes.HasPrefix((*m)[i].orderingKey(), prefix) {
			held := (*m)[i].Fun.(*FungibleAmount)
			sum, err := addUint128(held.Amount, f.Amount)
			if err != nil {
				return fmt.Errorf("unable to merge fungible amounts: %w", err)
			}
			// the amount sits after the class prefix in the ordering key, so an
			// in place update can not move the entry relative to other classes
			(*m)[i] = &MultiAsset{ID: (*m)[i].ID, Fun: &FungibleAmount{Amount: sum}}
			return nil
		}
	} else if m.Contains(asset) {
		return nil
	}

	key := asset.orderingKey()
	i := sort.Search(len(*m), func(i int) bool {
		return bytes.Compare((*m)[i].orderingKey(), key) >= 0
	})
	*m = append(*m, nil)
	copy((*m)[i+1:], (*m)[i:])
	(*m)[i] = asset.Clone()
	return nil
}

// Contains tells whether the collection holds an asset equal by value to the
// given one. Lookup is a binary search over the canonical order.
func (m MultiAssets) Contains(asset *MultiAsset) bool {
	key := asset.orderingKey()
	i := sort.Search(len(m), func(i int) bool {
		return bytes.Compare(m[i].orderingKey(), key) >= 0
	})
	return i < len(m) && bytes.Equal(m[i].orderingKey(), key)
}

// ContainsAll tells whether every asset of other is contained in the collection.
func (m MultiAssets) ContainsAll(other MultiAssets) bool {
	for _, a := range other {
		if !m.Contains(a) {
			return false
		}
	}
	return true
}

// ValidateCanonical checks strict ascending order, per class fungible
// uniqueness and per asset amount validity.
func (m MultiAssets) ValidateCanonical() error {
	var prevKey []byte
	seenFungible := make(map[string]struct{})
	for i, a := range m {
		if f, ok := a.Fun.(*FungibleAmount); ok {
			if f.Amount == nil || f.Amount.Sign() <= 0 {
				return fmt.Errorf("asset %d: %w", i, ErrInvalidAssetAmount)
			}
			idKey := string(lexicalBytes(a.ID))
			if _, ok := seenFungible[idKey]; ok {
				return fmt.Errorf("asset %d repeats a fungible asset class: %w", i, ErrInvalidOrDuplicateAsset)
			}
			seenFungible[idKey] = struct{}{}
		}
		key := a.orderingKey()
		if prevKey != nil && bytes.Compare(prevKey, key) >= 0 {
			return fmt.Errorf("asset %d breaks strict ascending order: %w", i, ErrInvalidOrDuplicateAsset)
		}
		prevKey = key
	}
	return nil
}

// MultiAssetsFromBytes parses an asset collection from its wire encoding. Any
// sequence not already in canonical form fails the whole decode, there is no
// repairing decode path.
func MultiAssetsFromBytes(data []byte, limits *Limits) (MultiAssets, int, error) {
	if limits == nil {
		limits = DefaultLimits
	}
	col := MultiAssets{}
	n, err := serializer.NewDeserializer(data).
		ReadSliceOfObjects(&col, serializer.DeSeriModePerformValidation, limits, serializer.SeriLengthPrefixTypeAsByte, serializer.TypeDenotationNone, CollectionArrayRules(limits), func(err error) error {
			if errors.Is(err, serializer.ErrArrayValidationViolatesUniqueness) {
				err = fmt.Errorf("%v: %w", err, ErrInvalidOrDuplicateAsset)
			}
			return fmt.Errorf("unable to deserialize asset collection: %w", err)
		}).
		Done()
	if err != nil {
		return nil, 0, err
	}
	if err := col.ValidateCanonical(); err != nil {
		return nil, 0, fmt.Errorf("unable to deserialize asset collection: %w", err)
	}
	return col, n, nil
}

// Bytes returns the canonical wire encoding of the collection.
func (m MultiAssets) Bytes(limits *Limits) ([]byte, error) {
	if limits == nil {
		limits = DefaultLimits
	}
	if err := m.ValidateCanonical(); err != nil {
		return nil, fmt.Errorf("unable to serialize asset collection: %w", err)
	}
	return serializer.NewSerializer().
		WriteSliceOfObjects(&m, serializer.DeSeriModePerformValidation, limits, serializer.SeriLengthPrefixTypeAsByte, CollectionArrayRules(limits), func(err error) error {
			return fmt.Errorf("unable to serialize asset collection: %w", err)
		}).
		Serialize()
}
