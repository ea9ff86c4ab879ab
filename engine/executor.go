package engine

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/iotaledger/hive.go/serializer/v2"
	iotago "github.com/iotaledger/iota.go/v3"

	"xcasset/assets"
)

// Executor applies transfer messages to per-account holdings. Every message
// runs against a transient holding register: Withdraw moves assets from the
// origin account into the register, PayFee and Deposit drain matching assets
// out of it. A message either applies completely or not at all.
type Executor struct {
	mu       sync.Mutex
	accounts map[string]*Holdings
	feePool  *Holdings
	limits   *assets.Limits
}

// NewExecutor returns an executor with empty accounts and fee pool.
func NewExecutor(limits *assets.Limits) *Executor {
	if limits == nil {
		limits = assets.DefaultLimits
	}
	return &Executor{
		accounts: make(map[string]*Holdings),
		feePool:  NewHoldings(),
		limits:   limits,
	}
}

func accountKey(addr iotago.Address) (string, error) {
	data, err := addr.Serialize(serializer.DeSeriModeNoValidation, nil)
	if err != nil {
		return "", fmt.Errorf("unable to key account address: %w", err)
	}
	return hex.EncodeToString(data), nil
}

// Credit deposits an asset into an account outside of message execution, e.g.
// when funding accounts from an external settlement.
func (e *Executor) Credit(addr iotago.Address, asset *assets.MultiAsset) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	key, err := accountKey(addr)
	if err != nil {
		return err
	}
	h, ok := e.accounts[key]
	if !ok {
		h = NewHoldings()
		e.accounts[key] = h
	}
	return h.Deposit(asset)
}

// Balance returns the current holdings of an account in canonical form.
func (e *Executor) Balance(addr iotago.Address) (assets.MultiAssets, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	key, err := accountKey(addr)
	if err != nil {
		return nil, err
	}
	h, ok := e.accounts[key]
	if !ok {
		return assets.MultiAssets{}, nil
	}
	return h.Balance(), nil
}

// FeePool returns the fees collected so far in canonical form.
func (e *Executor) FeePool() assets.MultiAssets {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feePool.Balance()
}

// Execute runs a transfer message. All touched holdings are cloned first and
// only written back when every instruction succeeded, a failing instruction
// leaves the executor unchanged. Register assets left over after the last
// instruction return to the origin account.
func (e *Executor) Execute(msg *TransferMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	originKey, err := accountKey(msg.Origin)
	if err != nil {
		return err
	}

	work := make(map[string]*Holdings)
	workFor := func(key string) *Holdings {
		if h, ok := work[key]; ok {
			return h
		}
		h := NewHoldings()
		if cur, ok := e.accounts[key]; ok {
			h = cur.Clone()
		}
		work[key] = h
		return h
	}

	register := NewHoldings()
	feePool := e.feePool.Clone()

	for i, ins := range msg.Instructions {
		switch t := ins.(type) {
		case *WithdrawInstruction:
			origin := workFor(originKey)
			for _, asset := range t.Assets {
				if err := origin.Withdraw(asset); err != nil {
					return fmt.Errorf("instruction %d: %w", i, err)
				}
				if err := register.Deposit(asset); err != nil {
					return fmt.Errorf("instruction %d: %w", i, err)
				}
			}
		case *PayFeeInstruction:
			matched, err := drainMatching(register, t.Filter)
			if err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
			for _, asset := range matched {
				if err := feePool.Deposit(asset); err != nil {
					return fmt.Errorf("instruction %d: %w", i, err)
				}
			}
		case *DepositInstruction:
			key, err := accountKey(t.Beneficiary)
			if err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
			matched, err := drainMatching(register, t.Filter)
			if err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
			beneficiary := workFor(key)
			for _, asset := range matched {
				if err := beneficiary.Deposit(asset); err != nil {
					return fmt.Errorf("instruction %d: %w", i, err)
				}
			}
		default:
			return fmt.Errorf("instruction %d: %w", i, ErrUnknownInstruction)
		}
	}

	// leftovers are not trapped, they flow back to the origin
	origin := workFor(originKey)
	for _, asset := range register.Balance() {
		if err := origin.Deposit(asset); err != nil {
			return fmt.Errorf("unable to return register leftovers: %w", err)
		}
	}

	for key, h := range work {
		if h.Empty() {
			delete(e.accounts, key)
			continue
		}
		e.accounts[key] = h
	}
	e.feePool = feePool
	return nil
}

// drainMatching removes every register asset the filter permits and returns
// the removed assets. Matching is evaluated once per held asset.
func drainMatching(register *Holdings, filter assets.MultiAssetFilter) ([]*assets.MultiAsset, error) {
	var matched []*assets.MultiAsset
	for _, asset := range register.Balance() {
		if !filter.Matches(asset) {
			continue
		}
		if err := register.Withdraw(asset); err != nil {
			return nil, err
		}
		matched = append(matched, asset)
	}
	return matched, nil
}
