package assets

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	iotago "github.com/iotaledger/iota.go/v3"
)

// Variants encode to JSON as an object carrying a numeric "type" discriminator
// next to the payload fields, mirroring the wire encoding's leading tag byte.
// Byte payloads are 0x-prefixed hex, 128 bit numbers are decimal strings.

func jsonVariantType(data []byte) (byte, error) {
	box := &struct {
		Type byte `json:"type"`
	}{}
	if err := json.Unmarshal(data, box); err != nil {
		return 0, fmt.Errorf("unable to read variant type from JSON: %w", err)
	}
	return box.Type, nil
}

// AddressFromJSON parses a location address from its JSON object.
func AddressFromJSON(raw json.RawMessage) (iotago.Address, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	addr, err := iotago.AddressSelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func assetIDFromJSON(raw json.RawMessage) (AssetID, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	id, err := AssetIDSelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, id); err != nil {
		return nil, err
	}
	return id, nil
}

func assetInstanceFromJSON(raw json.RawMessage) (AssetInstance, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	inst, err := AssetInstanceSelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func fungibilityFromJSON(raw json.RawMessage) (Fungibility, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	fun, err := FungibilitySelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, fun); err != nil {
		return nil, err
	}
	return fun, nil
}

func wildAssetFromJSON(raw json.RawMessage) (WildAsset, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	wild, err := WildAssetSelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, wild); err != nil {
		return nil, err
	}
	return wild, nil
}

// FilterFromJSON parses an asset filter from its JSON object.
func FilterFromJSON(raw json.RawMessage) (MultiAssetFilter, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	filter, err := FilterSelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func uint128FromString(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%s is not a decimal number", s)
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return nil, fmt.Errorf("%s: %w", s, ErrAmountOverflow)
	}
	return v, nil
}

type jsonConcreteAssetID struct {
	Type     byte            `json:"type"`
	Location json.RawMessage `json:"location"`
}

func (c *ConcreteAssetID) MarshalJSON() ([]byte, error) {
	location, err := json.Marshal(c.Location)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonConcreteAssetID{Type: byte(AssetIDConcrete), Location: location})
}

func (c *ConcreteAssetID) UnmarshalJSON(data []byte) error {
	j := &jsonConcreteAssetID{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	location, err := AddressFromJSON(j.Location)
	if err != nil {
		return fmt.Errorf("unable to parse location of concrete asset ID: %w", err)
	}
	c.Location = location
	return nil
}

type jsonAbstractAssetID struct {
	Type byte   `json:"type"`
	Tag  string `json:"tag"`
}

func (a *AbstractAssetID) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonAbstractAssetID{Type: byte(AssetIDAbstract), Tag: hexutil.Encode(a.Tag)})
}

func (a *AbstractAssetID) UnmarshalJSON(data []byte) error {
	j := &jsonAbstractAssetID{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	tag, err := hexutil.Decode(j.Tag)
	if err != nil {
		return fmt.Errorf("unable to parse tag of abstract asset ID: %w", err)
	}
	a.Tag = tag
	return nil
}

type jsonTypeOnly struct {
	Type byte `json:"type"`
}

func (u *UndefinedInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonTypeOnly{Type: byte(InstanceUndefined)})
}

func (u *UndefinedInstance) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &jsonTypeOnly{})
}

type jsonIndexInstance struct {
	Type  byte   `json:"type"`
	Index string `json:"index"`
}

func (i *IndexInstance) MarshalJSON() ([]byte, error) {
	if i.Index == nil {
		return nil, fmt.Errorf("index instance index must be set")
	}
	return json.Marshal(&jsonIndexInstance{Type: byte(InstanceIndex), Index: i.Index.String()})
}

func (i *IndexInstance) UnmarshalJSON(data []byte) error {
	j := &jsonIndexInstance{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	index, err := uint128FromString(j.Index)
	if err != nil {
		return fmt.Errorf("unable to parse index of index instance: %w", err)
	}
	i.Index = index
	return nil
}

type jsonArrayInstance struct {
	Type byte   `json:"type"`
	Key  string `json:"key"`
}

func arrayInstanceToJSON(instType AssetInstanceType, key []byte) ([]byte, error) {
	return json.Marshal(&jsonArrayInstance{Type: byte(instType), Key: hexutil.Encode(key)})
}

func arrayInstanceFromJSON(data []byte, key []byte) error {
	j := &jsonArrayInstance{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	raw, err := hexutil.Decode(j.Key)
	if err != nil {
		return fmt.Errorf("unable to parse key of array instance: %w", err)
	}
	if len(raw) != len(key) {
		return fmt.Errorf("array instance key is %d bytes, want %d", len(raw), len(key))
	}
	copy(key, raw)
	return nil
}

func (a *Array4Instance) MarshalJSON() ([]byte, error) {
	return arrayInstanceToJSON(InstanceArray4, a.Key[:])
}

func (a *Array4Instance) UnmarshalJSON(data []byte) error {
	return arrayInstanceFromJSON(data, a.Key[:])
}

func (a *Array8Instance) MarshalJSON() ([]byte, error) {
	return arrayInstanceToJSON(InstanceArray8, a.Key[:])
}

func (a *Array8Instance) UnmarshalJSON(data []byte) error {
	return arrayInstanceFromJSON(data, a.Key[:])
}

func (a *Array16Instance) MarshalJSON() ([]byte, error) {
	return arrayInstanceToJSON(InstanceArray16, a.Key[:])
}

func (a *Array16Instance) UnmarshalJSON(data []byte) error {
	return arrayInstanceFromJSON(data, a.Key[:])
}

func (a *Array32Instance) MarshalJSON() ([]byte, error) {
	return arrayInstanceToJSON(InstanceArray32, a.Key[:])
}

func (a *Array32Instance) UnmarshalJSON(data []byte) error {
	return arrayInstanceFromJSON(data, a.Key[:])
}

type jsonBlobInstance struct {
	Type byte   `json:"type"`
	Blob string `json:"blob"`
}

func (b *BlobInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonBlobInstance{Type: byte(InstanceBlob), Blob: hexutil.Encode(b.Blob)})
}

func (b *BlobInstance) UnmarshalJSON(data []byte) error {
	j := &jsonBlobInstance{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	blob, err := hexutil.Decode(j.Blob)
	if err != nil {
		return fmt.Errorf("unable to parse blob instance key: %w", err)
	}
	b.Blob = blob
	return nil
}

type jsonFungibleAmount struct {
	Type   byte   `json:"type"`
	Amount string `json:"amount"`
}

func (f *FungibleAmount) MarshalJSON() ([]byte, error) {
	if f.Amount == nil {
		return nil, fmt.Errorf("fungible amount must be set")
	}
	return json.Marshal(&jsonFungibleAmount{Type: byte(FungibilityFungible), Amount: f.Amount.String()})
}

func (f *FungibleAmount) UnmarshalJSON(data []byte) error {
	j := &jsonFungibleAmount{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	amount, err := uint128FromString(j.Amount)
	if err != nil {
		return fmt.Errorf("unable to parse fungible amount: %w", err)
	}
	f.Amount = amount
	return nil
}

type jsonNonFungibleInstance struct {
	Type     byte            `json:"type"`
	Instance json.RawMessage `json:"instance"`
}

func (nf *NonFungibleInstance) MarshalJSON() ([]byte, error) {
	instance, err := json.Marshal(nf.Instance)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonNonFungibleInstance{Type: byte(FungibilityNonFungible), Instance: instance})
}

func (nf *NonFungibleInstance) UnmarshalJSON(data []byte) error {
	j := &jsonNonFungibleInstance{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	instance, err := assetInstanceFromJSON(j.Instance)
	if err != nil {
		return fmt.Errorf("unable to parse non-fungible instance: %w", err)
	}
	nf.Instance = instance
	return nil
}

type jsonMultiAsset struct {
	ID          json.RawMessage `json:"id"`
	Fungibility json.RawMessage `json:"fungibility"`
}

func (m *MultiAsset) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(m.ID)
	if err != nil {
		return nil, err
	}
	fun, err := json.Marshal(m.Fun)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonMultiAsset{ID: id, Fungibility: fun})
}

func (m *MultiAsset) UnmarshalJSON(data []byte) error {
	j := &jsonMultiAsset{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	id, err := assetIDFromJSON(j.ID)
	if err != nil {
		return fmt.Errorf("unable to parse ID of asset: %w", err)
	}
	fun, err := fungibilityFromJSON(j.Fungibility)
	if err != nil {
		return fmt.Errorf("unable to parse fungibility of asset: %w", err)
	}
	m.ID = id
	m.Fun = fun
	return nil
}

func (w *AllAssets) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonTypeOnly{Type: byte(WildAssetAll)})
}

func (w *AllAssets) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &jsonTypeOnly{})
}

type jsonAllAssetsOf struct {
	Type        byte            `json:"type"`
	ID          json.RawMessage `json:"id"`
	Fungibility byte            `json:"fungibility"`
}

func (w *AllAssetsOf) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(w.ID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonAllAssetsOf{Type: byte(WildAssetAllOf), ID: id, Fungibility: byte(w.Fungibility)})
}

func (w *AllAssetsOf) UnmarshalJSON(data []byte) error {
	j := &jsonAllAssetsOf{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	id, err := assetIDFromJSON(j.ID)
	if err != nil {
		return fmt.Errorf("unable to parse ID of class wildcard: %w", err)
	}
	w.ID = id
	w.Fungibility = WildFungibility(j.Fungibility)
	return nil
}

type jsonDefiniteFilter struct {
	Type   byte        `json:"type"`
	Assets MultiAssets `json:"assets"`
}

func (f *DefiniteFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonDefiniteFilter{Type: byte(FilterDefinite), Assets: f.Assets})
}

func (f *DefiniteFilter) UnmarshalJSON(data []byte) error {
	j := &jsonDefiniteFilter{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	f.Assets = j.Assets
	return nil
}

type jsonWildcardFilter struct {
	Type byte            `json:"type"`
	Wild json.RawMessage `json:"wild"`
}

func (f *WildcardFilter) MarshalJSON() ([]byte, error) {
	wild, err := json.Marshal(f.Wild)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonWildcardFilter{Type: byte(FilterWild), Wild: wild})
}

func (f *WildcardFilter) UnmarshalJSON(data []byte) error {
	j := &jsonWildcardFilter{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	wild, err := wildAssetFromJSON(j.Wild)
	if err != nil {
		return fmt.Errorf("unable to parse wildcard of filter: %w", err)
	}
	f.Wild = wild
	return nil
}
