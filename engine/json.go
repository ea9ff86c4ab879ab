package engine

import (
	"encoding/json"
	"fmt"

	"xcasset/assets"
)

func jsonVariantType(data []byte) (byte, error) {
	box := &struct {
		Type byte `json:"type"`
	}{}
	if err := json.Unmarshal(data, box); err != nil {
		return 0, fmt.Errorf("unable to read variant type from JSON: %w", err)
	}
	return box.Type, nil
}

func instructionFromJSON(raw json.RawMessage) (Instruction, error) {
	ty, err := jsonVariantType(raw)
	if err != nil {
		return nil, err
	}
	ins, err := InstructionSelector(uint32(ty))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, ins); err != nil {
		return nil, err
	}
	return ins, nil
}

type jsonWithdrawInstruction struct {
	Type   byte               `json:"type"`
	Assets assets.MultiAssets `json:"assets"`
}

func (w *WithdrawInstruction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonWithdrawInstruction{Type: byte(InstructionWithdraw), Assets: w.Assets})
}

func (w *WithdrawInstruction) UnmarshalJSON(data []byte) error {
	j := &jsonWithdrawInstruction{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	w.Assets = j.Assets
	return nil
}

type jsonDepositInstruction struct {
	Type        byte            `json:"type"`
	Filter      json.RawMessage `json:"filter"`
	Beneficiary json.RawMessage `json:"beneficiary"`
}

func (d *DepositInstruction) MarshalJSON() ([]byte, error) {
	filter, err := json.Marshal(d.Filter)
	if err != nil {
		return nil, err
	}
	beneficiary, err := json.Marshal(d.Beneficiary)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonDepositInstruction{Type: byte(InstructionDeposit), Filter: filter, Beneficiary: beneficiary})
}

func (d *DepositInstruction) UnmarshalJSON(data []byte) error {
	j := &jsonDepositInstruction{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	filter, err := assets.FilterFromJSON(j.Filter)
	if err != nil {
		return fmt.Errorf("unable to parse filter of deposit instruction: %w", err)
	}
	beneficiary, err := assets.AddressFromJSON(j.Beneficiary)
	if err != nil {
		return fmt.Errorf("unable to parse beneficiary of deposit instruction: %w", err)
	}
	d.Filter = filter
	d.Beneficiary = beneficiary
	return nil
}

type jsonPayFeeInstruction struct {
	Type   byte            `json:"type"`
	Filter json.RawMessage `json:"filter"`
}

func (p *PayFeeInstruction) MarshalJSON() ([]byte, error) {
	filter, err := json.Marshal(p.Filter)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonPayFeeInstruction{Type: byte(InstructionPayFee), Filter: filter})
}

func (p *PayFeeInstruction) UnmarshalJSON(data []byte) error {
	j := &jsonPayFeeInstruction{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	filter, err := assets.FilterFromJSON(j.Filter)
	if err != nil {
		return fmt.Errorf("unable to parse filter of pay fee instruction: %w", err)
	}
	p.Filter = filter
	return nil
}

type jsonTransferMessage struct {
	Version      byte              `json:"version"`
	Origin       json.RawMessage   `json:"origin"`
	Instructions []json.RawMessage `json:"instructions"`
}

func (t *TransferMessage) MarshalJSON() ([]byte, error) {
	origin, err := json.Marshal(t.Origin)
	if err != nil {
		return nil, err
	}
	instructions := make([]json.RawMessage, len(t.Instructions))
	for i, ins := range t.Instructions {
		raw, err := json.Marshal(ins)
		if err != nil {
			return nil, err
		}
		instructions[i] = raw
	}
	return json.Marshal(&jsonTransferMessage{Version: MessageVersion, Origin: origin, Instructions: instructions})
}

func (t *TransferMessage) UnmarshalJSON(data []byte) error {
	j := &jsonTransferMessage{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	if j.Version != MessageVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, j.Version)
	}
	origin, err := assets.AddressFromJSON(j.Origin)
	if err != nil {
		return fmt.Errorf("unable to parse origin of transfer message: %w", err)
	}
	instructions := make(Instructions, len(j.Instructions))
	for i, raw := range j.Instructions {
		ins, err := instructionFromJSON(raw)
		if err != nil {
			return fmt.Errorf("unable to parse instruction %d of transfer message: %w", i, err)
		}
		instructions[i] = ins
	}
	t.Origin = origin
	t.Instructions = instructions
	return nil
}
