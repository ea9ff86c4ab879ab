package assets

import (
	"fmt"
	"math/big"

	"github.com/iotaledger/hive.go/serializer/v2"
)

// AssetInstanceType denotes the kind of a non-fungible asset instance identifier.
type AssetInstanceType byte

const (
	// InstanceUndefined denotes an undefined instance within its class.
	InstanceUndefined AssetInstanceType = iota
	// InstanceIndex denotes an instance selected by an unsigned 128 bit index.
	InstanceIndex
	// InstanceArray4 denotes an instance selected by a fixed 4 byte key.
	InstanceArray4
	// InstanceArray8 denotes an instance selected by a fixed 8 byte key.
	InstanceArray8
	// InstanceArray16 denotes an instance selected by a fixed 16 byte key.
	InstanceArray16
	// InstanceArray32 denotes an instance selected by a fixed 32 byte key.
	InstanceArray32
	// InstanceBlob denotes an instance selected by an arbitrary byte blob.
	InstanceBlob
)

// AssetInstance identifies one non-fungible unit within an asset class.
type AssetInstance interface {
	serializer.Serializable

	// Type returns the kind of the instance identifier.
	Type() AssetInstanceType
	// Clone returns a deep copy of the instance identifier.
	Clone() AssetInstance
}

// AssetInstanceSelector implements SerializableSelectorFunc for asset instance types.
func AssetInstanceSelector(instType uint32) (AssetInstance, error) {
	switch AssetInstanceType(instType) {
	case InstanceUndefined:
		return &UndefinedInstance{}, nil
	case InstanceIndex:
		return &IndexInstance{}, nil
	case InstanceArray4:
		return &Array4Instance{}, nil
	case InstanceArray8:
		return &Array8Instance{}, nil
	case InstanceArray16:
		return &Array16Instance{}, nil
	case InstanceArray32:
		return &Array32Instance{}, nil
	case InstanceBlob:
		return &BlobInstance{}, nil
	default:
		return nil, fmt.Errorf("%w: asset instance type %d", ErrUnknownVariant, instType)
	}
}

func assetInstanceReadGuard(ty uint32) (serializer.Serializable, error) {
	return AssetInstanceSelector(ty)
}

// UndefinedInstance leaves the instance within its class undefined.
type UndefinedInstance struct{}

func (u *UndefinedInstance) Type() AssetInstanceType {
	return InstanceUndefined
}

func (u *UndefinedInstance) Clone() AssetInstance {
	return &UndefinedInstance{}
}

func (u *UndefinedInstance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip undefined instance type byte: %w", err)
		}).
		Done()
}

func (u *UndefinedInstance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(InstanceUndefined), func(err error) error {
			return fmt.Errorf("unable to serialize undefined instance type byte: %w", err)
		}).
		Serialize()
}

// IndexInstance selects an instance by a numeric index.
type IndexInstance struct {
	// Index is the unsigned 128 bit instance index.
	Index *big.Int
}

func (i *IndexInstance) Type() AssetInstanceType {
	return InstanceIndex
}

func (i *IndexInstance) Clone() AssetInstance {
	return &IndexInstance{Index: new(big.Int).Set(i.Index)}
}

func (i *IndexInstance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	buf := make([]byte, Uint128ByteSize)
	n, err := serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip index instance type byte: %w", err)
		}).
		ReadBytesInPlace(buf, func(err error) error {
			return fmt.Errorf("unable to deserialize index of index instance: %w", err)
		}).
		Done()
	if err != nil {
		return 0, err
	}
	i.Index = uint128FromBytes(buf)
	return n, nil
}

func (i *IndexInstance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	idx, err := uint128ToBytes(i.Index)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize index of index instance: %w", err)
	}
	return serializer.NewSerializer().
		WriteNum(byte(InstanceIndex), func(err error) error {
			return fmt.Errorf("unable to serialize index instance type byte: %w", err)
		}).
		WriteBytes(idx, func(err error) error {
			return fmt.Errorf("unable to serialize index of index instance: %w", err)
		}).
		Serialize()
}

// Array4Instance selects an instance by a fixed 4 byte key.
type Array4Instance struct {
	Key [4]byte
}

func (a *Array4Instance) Type() AssetInstanceType {
	return InstanceArray4
}

func (a *Array4Instance) Clone() AssetInstance {
	return &Array4Instance{Key: a.Key}
}

func (a *Array4Instance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return deserializeArrayInstance(data, InstanceArray4, a.Key[:])
}

func (a *Array4Instance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializeArrayInstance(InstanceArray4, a.Key[:])
}

// Array8Instance selects an instance by a fixed 8 byte key.
type Array8Instance struct {
	Key [8]byte
}

func (a *Array8Instance) Type() AssetInstanceType {
	return InstanceArray8
}

func (a *Array8Instance) Clone() AssetInstance {
	return &Array8Instance{Key: a.Key}
}

func (a *Array8Instance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return deserializeArrayInstance(data, InstanceArray8, a.Key[:])
}

func (a *Array8Instance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializeArrayInstance(InstanceArray8, a.Key[:])
}

// Array16Instance selects an instance by a fixed 16 byte key.
type Array16Instance struct {
	Key [16]byte
}

func (a *Array16Instance) Type() AssetInstanceType {
	return InstanceArray16
}

func (a *Array16Instance) Clone() AssetInstance {
	return &Array16Instance{Key: a.Key}
}

func (a *Array16Instance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return deserializeArrayInstance(data, InstanceArray16, a.Key[:])
}

func (a *Array16Instance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializeArrayInstance(InstanceArray16, a.Key[:])
}

// Array32Instance selects an instance by a fixed 32 byte key.
type Array32Instance struct {
	Key [32]byte
}

func (a *Array32Instance) Type() AssetInstanceType {
	return InstanceArray32
}

func (a *Array32Instance) Clone() AssetInstance {
	return &Array32Instance{Key: a.Key}
}

func (a *Array32Instance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return deserializeArrayInstance(data, InstanceArray32, a.Key[:])
}

func (a *Array32Instance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializeArrayInstance(InstanceArray32, a.Key[:])
}

func deserializeArrayInstance(data []byte, instType AssetInstanceType, key []byte) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip array instance type byte: %w", err)
		}).
		ReadBytesInPlace(key, func(err error) error {
			return fmt.Errorf("unable to deserialize key of %d byte array instance: %w", len(key), err)
		}).
		Done()
}

func serializeArrayInstance(instType AssetInstanceType, key []byte) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(instType), func(err error) error {
			return fmt.Errorf("unable to serialize array instance type byte: %w", err)
		}).
		WriteBytes(key, func(err error) error {
			return fmt.Errorf("unable to serialize key of %d byte array instance: %w", len(key), err)
		}).
		Serialize()
}

// BlobInstance selects an instance by an arbitrary byte blob.
type BlobInstance struct {
	// Blob is the instance key, bounded by Limits.MaxBlobLength.
	Blob []byte
}

func (b *BlobInstance) Type() AssetInstanceType {
	return InstanceBlob
}

func (b *BlobInstance) Clone() AssetInstance {
	blob := make([]byte, len(b.Blob))
	copy(blob, b.Blob)
	return &BlobInstance{Blob: blob}
}

func (b *BlobInstance) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	limits := LimitsFromContext(deSeriCtx)
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip blob instance type byte: %w", err)
		}).
		ReadVariableByteSlice(&b.Blob, serializer.SeriLengthPrefixTypeAsUint16, func(err error) error {
			return fmt.Errorf("unable to deserialize blob instance key: %w", err)
		}, 0, 65535).
		AbortIf(func(err error) error {
			if len(b.Blob) > limits.MaxBlobLength {
				return fmt.Errorf("blob instance key is %d bytes, max is %d: %w", len(b.Blob), limits.MaxBlobLength, ErrLengthExceeded)
			}
			return nil
		}).
		Done()
}

func (b *BlobInstance) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	limits := LimitsFromContext(deSeriCtx)
	return serializer.NewSerializer().
		AbortIf(func(err error) error {
			if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) && len(b.Blob) > limits.MaxBlobLength {
				return fmt.Errorf("blob instance key is %d bytes, max is %d: %w", len(b.Blob), limits.MaxBlobLength, ErrLengthExceeded)
			}
			return nil
		}).
		WriteNum(byte(InstanceBlob), func(err error) error {
			return fmt.Errorf("unable to serialize blob instance type byte: %w", err)
		}).
		WriteVariableByteSlice(b.Blob, serializer.SeriLengthPrefixTypeAsUint16, func(err error) error {
			return fmt.Errorf("unable to serialize blob instance key: %w", err)
		}, 0, 65535).
		Serialize()
}
