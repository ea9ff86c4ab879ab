package engine

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iotaledger/hive.go/serializer/v2"
	iotago "github.com/iotaledger/iota.go/v3"
	"golang.org/x/crypto/blake2b"

	"xcasset/assets"
)

// MessageVersion is the wire version of transfer messages this gateway understands.
const MessageVersion byte = 1

// MaxInstructionCount caps the instruction list of one transfer message.
const MaxInstructionCount = 16

var (
	// ErrUnsupportedVersion gets returned when a message carries an unknown version byte.
	ErrUnsupportedVersion = errors.New("unsupported transfer message version")
	// ErrUnknownInstruction gets returned when an instruction type byte is unknown.
	ErrUnknownInstruction = errors.New("unknown instruction type")
	// ErrTrailingBytes gets returned when a message encoding carries data past its end.
	ErrTrailingBytes = errors.New("trailing bytes after transfer message")
)

// InstructionType denotes the kind of a transfer instruction.
type InstructionType byte

const (
	// InstructionWithdraw moves assets from the origin account into the holding register.
	InstructionWithdraw InstructionType = iota
	// InstructionDeposit credits register assets matching a filter to a beneficiary.
	InstructionDeposit
	// InstructionPayFee collects register assets matching a filter as execution fees.
	InstructionPayFee
)

// Instruction is one step of a transfer message.
type Instruction interface {
	serializer.Serializable

	// Type returns the kind of the instruction.
	Type() InstructionType
}

// InstructionSelector implements SerializableSelectorFunc for instruction types.
func InstructionSelector(insType uint32) (Instruction, error) {
	switch InstructionType(insType) {
	case InstructionWithdraw:
		return &WithdrawInstruction{}, nil
	case InstructionDeposit:
		return &DepositInstruction{}, nil
	case InstructionPayFee:
		return &PayFeeInstruction{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, insType)
	}
}

// Instructions is the ordered instruction list of a transfer message.
type Instructions []Instruction

func (ins Instructions) ToSerializables() serializer.Serializables {
	seris := make(serializer.Serializables, len(ins))
	for i, x := range ins {
		seris[i] = x
	}
	return seris
}

func (ins *Instructions) FromSerializables(seris serializer.Serializables) {
	*ins = make(Instructions, len(seris))
	for i, seri := range seris {
		(*ins)[i] = seri.(Instruction)
	}
}

// Clone returns a deep copy of the instruction list.
func (ins Instructions) Clone() Instructions {
	out := make(Instructions, len(ins))
	for i, x := range ins {
		switch t := x.(type) {
		case *WithdrawInstruction:
			out[i] = &WithdrawInstruction{Assets: t.Assets.Clone()}
		case *DepositInstruction:
			// addresses are never mutated, sharing them is fine
			out[i] = &DepositInstruction{Filter: t.Filter.Clone(), Beneficiary: t.Beneficiary}
		case *PayFeeInstruction:
			out[i] = &PayFeeInstruction{Filter: t.Filter.Clone()}
		}
	}
	return out
}

func instructionsArrayRules() *serializer.ArrayRules {
	return &serializer.ArrayRules{
		Min: 1,
		Max: MaxInstructionCount,
		Guards: serializer.SerializableGuard{
			ReadGuard: func(ty uint32) (serializer.Serializable, error) {
				return InstructionSelector(ty)
			},
			WriteGuard: func(seri serializer.Serializable) error {
				if _, ok := seri.(Instruction); !ok {
					return fmt.Errorf("%w: expected an instruction", ErrUnknownInstruction)
				}
				return nil
			},
		},
		// instruction order is program order, duplicates are meaningful
		ValidationMode: serializer.ArrayValidationModeNone,
	}
}

// WithdrawInstruction moves a definite asset collection out of the origin
// account into the holding register.
type WithdrawInstruction struct {
	// Assets is the canonical collection to withdraw.
	Assets assets.MultiAssets
}

func (w *WithdrawInstruction) Type() InstructionType {
	return InstructionWithdraw
}

func (w *WithdrawInstruction) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	limits := assets.LimitsFromContext(deSeriCtx)
	n, err := serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip withdraw instruction type byte: %w", err)
		}).
		ReadSliceOfObjects(&w.Assets, deSeriMode, deSeriCtx, serializer.SeriLengthPrefixTypeAsByte, serializer.TypeDenotationNone, assets.CollectionArrayRules(limits), func(err error) error {
			if errors.Is(err, serializer.ErrArrayValidationViolatesUniqueness) {
				err = fmt.Errorf("%v: %w", err, assets.ErrInvalidOrDuplicateAsset)
			}
			return fmt.Errorf("unable to deserialize assets of withdraw instruction: %w", err)
		}).
		Done()
	if err != nil {
		return 0, err
	}
	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err := w.Assets.ValidateCanonical(); err != nil {
			return 0, fmt.Errorf("unable to deserialize assets of withdraw instruction: %w", err)
		}
	}
	return n, nil
}

func (w *WithdrawInstruction) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	limits := assets.LimitsFromContext(deSeriCtx)
	if deSeriMode.HasMode(serializer.DeSeriModePerformValidation) {
		if err := w.Assets.ValidateCanonical(); err != nil {
			return nil, fmt.Errorf("unable to serialize assets of withdraw instruction: %w", err)
		}
	}
	return serializer.NewSerializer().
		WriteNum(byte(InstructionWithdraw), func(err error) error {
			return fmt.Errorf("unable to serialize withdraw instruction type byte: %w", err)
		}).
		WriteSliceOfObjects(&w.Assets, deSeriMode, deSeriCtx, serializer.SeriLengthPrefixTypeAsByte, assets.CollectionArrayRules(limits), func(err error) error {
			return fmt.Errorf("unable to serialize assets of withdraw instruction: %w", err)
		}).
		Serialize()
}

// DepositInstruction credits register assets matching the filter to a
// beneficiary account.
type DepositInstruction struct {
	// Filter selects which held assets get credited.
	Filter assets.MultiAssetFilter
	// Beneficiary is the account receiving the assets.
	Beneficiary iotago.Address
}

func (d *DepositInstruction) Type() InstructionType {
	return InstructionDeposit
}

func (d *DepositInstruction) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip deposit instruction type byte: %w", err)
		}).
		ReadObject(&d.Filter, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, assets.FilterReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize filter of deposit instruction: %w", err)
		}).
		ReadObject(&d.Beneficiary, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, func(ty uint32) (serializer.Serializable, error) {
			return iotago.AddressSelector(ty)
		}, func(err error) error {
			return fmt.Errorf("unable to deserialize beneficiary of deposit instruction: %w", err)
		}).
		Done()
}

func (d *DepositInstruction) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(InstructionDeposit), func(err error) error {
			return fmt.Errorf("unable to serialize deposit instruction type byte: %w", err)
		}).
		WriteObject(d.Filter, deSeriMode, deSeriCtx, assets.FilterWriteGuard, func(err error) error {
			return fmt.Errorf("unable to serialize filter of deposit instruction: %w", err)
		}).
		WriteObject(d.Beneficiary, deSeriMode, deSeriCtx, func(seri serializer.Serializable) error {
			if seri == nil {
				return errors.New("deposit beneficiary must be set")
			}
			return nil
		}, func(err error) error {
			return fmt.Errorf("unable to serialize beneficiary of deposit instruction: %w", err)
		}).
		Serialize()
}

// PayFeeInstruction collects register assets matching the filter as execution
// fees. Collected fees leave the register and accrue in the fee pool.
type PayFeeInstruction struct {
	// Filter selects which held assets pay the fee.
	Filter assets.MultiAssetFilter
}

func (p *PayFeeInstruction) Type() InstructionType {
	return InstructionPayFee
}

func (p *PayFeeInstruction) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	return serializer.NewDeserializer(data).
		Skip(serializer.SmallTypeDenotationByteSize, func(err error) error {
			return fmt.Errorf("unable to skip pay fee instruction type byte: %w", err)
		}).
		ReadObject(&p.Filter, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, assets.FilterReadGuard, func(err error) error {
			return fmt.Errorf("unable to deserialize filter of pay fee instruction: %w", err)
		}).
		Done()
}

func (p *PayFeeInstruction) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(byte(InstructionPayFee), func(err error) error {
			return fmt.Errorf("unable to serialize pay fee instruction type byte: %w", err)
		}).
		WriteObject(p.Filter, deSeriMode, deSeriCtx, assets.FilterWriteGuard, func(err error) error {
			return fmt.Errorf("unable to serialize filter of pay fee instruction: %w", err)
		}).
		Serialize()
}

// TransferMessage is one inbound asset transfer program: an origin account and
// the ordered instructions executed on its behalf.
type TransferMessage struct {
	// Origin is the account the message executes on behalf of.
	Origin iotago.Address
	// Instructions is the program, executed front to back.
	Instructions Instructions
}

// ID returns the content hash identifying the message. Replayed encodings hash
// to the same ID. The message is serialized without validation, the caller
// validated it when decoding or building it under its own limits.
func (t *TransferMessage) ID() (common.Hash, error) {
	data, err := t.Serialize(serializer.DeSeriModeNoValidation, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("unable to compute transfer message id: %w", err)
	}
	return common.Hash(blake2b.Sum256(data)), nil
}

func (t *TransferMessage) Deserialize(data []byte, deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) (int, error) {
	var version byte
	return serializer.NewDeserializer(data).
		ReadNum(&version, func(err error) error {
			return fmt.Errorf("unable to deserialize transfer message version: %w", err)
		}).
		AbortIf(func(err error) error {
			if version != MessageVersion {
				return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
			}
			return nil
		}).
		ReadObject(&t.Origin, deSeriMode, deSeriCtx, serializer.TypeDenotationByte, func(ty uint32) (serializer.Serializable, error) {
			return iotago.AddressSelector(ty)
		}, func(err error) error {
			return fmt.Errorf("unable to deserialize origin of transfer message: %w", err)
		}).
		ReadSliceOfObjects(&t.Instructions, deSeriMode, deSeriCtx, serializer.SeriLengthPrefixTypeAsByte, serializer.TypeDenotationByte, instructionsArrayRules(), func(err error) error {
			return fmt.Errorf("unable to deserialize instructions of transfer message: %w", err)
		}).
		Done()
}

func (t *TransferMessage) Serialize(deSeriMode serializer.DeSerializationMode, deSeriCtx interface{}) ([]byte, error) {
	return serializer.NewSerializer().
		WriteNum(MessageVersion, func(err error) error {
			return fmt.Errorf("unable to serialize transfer message version: %w", err)
		}).
		WriteObject(t.Origin, deSeriMode, deSeriCtx, func(seri serializer.Serializable) error {
			if seri == nil {
				return errors.New("message origin must be set")
			}
			return nil
		}, func(err error) error {
			return fmt.Errorf("unable to serialize origin of transfer message: %w", err)
		}).
		WriteSliceOfObjects(&t.Instructions, deSeriMode, deSeriCtx, serializer.SeriLengthPrefixTypeAsByte, instructionsArrayRules(), func(err error) error {
			return fmt.Errorf("unable to serialize instructions of transfer message: %w", err)
		}).
		Serialize()
}

// TransferMessageFromBytes parses a transfer message from its wire encoding.
// The encoding must be consumed entirely.
func TransferMessageFromBytes(data []byte, limits *assets.Limits) (*TransferMessage, error) {
	if limits == nil {
		limits = assets.DefaultLimits
	}
	msg := &TransferMessage{}
	n, err := msg.Deserialize(data, serializer.DeSeriModePerformValidation, limits)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d bytes left", ErrTrailingBytes, len(data)-n)
	}
	return msg, nil
}

// Bytes returns the wire encoding of the transfer message.
func (t *TransferMessage) Bytes(limits *assets.Limits) ([]byte, error) {
	if limits == nil {
		limits = assets.DefaultLimits
	}
	return t.Serialize(serializer.DeSeriModePerformValidation, limits)
}
