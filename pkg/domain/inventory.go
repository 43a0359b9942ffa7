package domain

import "github.com/0xquote/marketmaker/pkg/quant"

// Balances is the two-sided balance view of inventory, for venues that
// report base/quote wallet balances instead of a signed net position.
type Balances struct {
	BaseAmount  quant.Amount
	QuoteAmount quant.Amount
}

// InventoryKind discriminates the two ways a venue may report our holdings.
type InventoryKind int

const (
	InventoryPosition InventoryKind = iota
	InventoryBalances
)

// Inventory is our current holding in the traded instrument, reported
// either as a signed net Position or as a pair of Balances — some venues
// expose only wallet balances, not a netted position.
type Inventory struct {
	Kind     InventoryKind
	Position quant.Amount // valid when Kind == InventoryPosition
	Balances Balances     // valid when Kind == InventoryBalances
}

func NewPositionInventory(position quant.Amount) Inventory {
	return Inventory{Kind: InventoryPosition, Position: position}
}

func NewBalancesInventory(balances Balances) Inventory {
	return Inventory{Kind: InventoryBalances, Balances: balances}
}

// NetPosition returns the signed position regardless of how it was reported:
// for Balances-kind inventory this is the base-asset balance.
func (i Inventory) NetPosition() quant.Amount {
	if i.Kind == InventoryBalances {
		return i.Balances.BaseAmount
	}
	return i.Position
}
