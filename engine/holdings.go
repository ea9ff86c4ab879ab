package engine

import (
	"errors"
	"fmt"
	"math/big"

	"xcasset/assets"
)

// ErrInsufficientHoldings gets returned when an account does not hold the
// assets a withdrawal asks for.
var ErrInsufficientHoldings = errors.New("insufficient holdings")

// Holdings is the balance of one account: a canonical asset collection plus
// the partial-amount arithmetic the collection itself does not do.
type Holdings struct {
	assets assets.MultiAssets
}

// NewHoldings returns empty holdings.
func NewHoldings() *Holdings {
	return &Holdings{assets: assets.MultiAssets{}}
}

// Deposit merges the given asset into the holdings. Fungible amounts of the
// same class accumulate, equal non-fungible instances collapse into one.
func (h *Holdings) Deposit(asset *assets.MultiAsset) error {
	if err := h.assets.Push(asset); err != nil {
		return fmt.Errorf("unable to deposit %v: %w", asset, err)
	}
	return nil
}

// Withdraw removes the given asset from the holdings. A fungible asset needs
// at least the requested amount held for its class, the held amount gets
// reduced and the entry dropped when it reaches zero. A non-fungible asset
// needs its exact instance held.
func (h *Holdings) Withdraw(asset *assets.MultiAsset) error {
	switch fun := asset.Fun.(type) {
	case *assets.FungibleAmount:
		return h.withdrawFungible(asset, fun.Amount)
	case *assets.NonFungibleInstance:
		return h.withdrawNonFungible(asset)
	default:
		return fmt.Errorf("withdraw %v: %w", asset, assets.ErrUnknownVariant)
	}
}

func (h *Holdings) withdrawFungible(asset *assets.MultiAsset, amount *big.Int) error {
	for i, held := range h.assets {
		heldFun, ok := held.Fun.(*assets.FungibleAmount)
		if !ok || !assets.AssetIDsEqual(held.ID, asset.ID) {
			continue
		}
		switch heldFun.Amount.Cmp(amount) {
		case -1:
			return fmt.Errorf("withdraw %v: held %d: %w", asset, heldFun.Amount, ErrInsufficientHoldings)
		case 0:
			h.assets = append(h.assets[:i], h.assets[i+1:]...)
		default:
			heldFun.Amount = new(big.Int).Sub(heldFun.Amount, amount)
		}
		return nil
	}
	return fmt.Errorf("withdraw %v: class not held: %w", asset, ErrInsufficientHoldings)
}

func (h *Holdings) withdrawNonFungible(asset *assets.MultiAsset) error {
	for i, held := range h.assets {
		if held.Equal(asset) {
			h.assets = append(h.assets[:i], h.assets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("withdraw %v: instance not held: %w", asset, ErrInsufficientHoldings)
}

// Balance returns a copy of the held assets in canonical form.
func (h *Holdings) Balance() assets.MultiAssets {
	return h.assets.Clone()
}

// Empty tells whether nothing is held.
func (h *Holdings) Empty() bool {
	return len(h.assets) == 0
}

// Clone returns a deep copy of the holdings.
func (h *Holdings) Clone() *Holdings {
	return &Holdings{assets: h.assets.Clone()}
}
