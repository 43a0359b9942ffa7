package domain

import (
	"fmt"
	"strings"

	"github.com/0xquote/marketmaker/pkg/quant"
)

// OrderState is a single one of our own resting orders.
type OrderState struct {
	ID     OrderId
	Side   Side
	Price  quant.Price
	Amount quant.Amount
}

func NewOrderState(id OrderId, side Side, price, amount quant.Amount) OrderState {
	return OrderState{ID: id, Side: side, Price: price, Amount: amount}
}

func (o OrderState) ToCancelOrder() CancelOrder {
	return CancelOrder{ID: o.ID}
}

func (o OrderState) ToUpdateOrder(next NewOrder) Order {
	return Order{Kind: OrderKindNew, New: next}
}

// OpenOrders is the full set of our own resting orders on a market.
type OpenOrders struct {
	Timestamp int64
	Orders    []OrderState
}

func NewOpenOrders(timestamp int64, orders []OrderState) OpenOrders {
	return OpenOrders{Timestamp: timestamp, Orders: orders}
}

func (o OpenOrders) Asks() []OrderState {
	out := make([]OrderState, 0, len(o.Orders))
	for _, os := range o.Orders {
		if os.Side.IsAsk() {
			out = append(out, os)
		}
	}
	return out
}

func (o OpenOrders) Bids() []OrderState {
	out := make([]OrderState, 0, len(o.Orders))
	for _, os := range o.Orders {
		if os.Side.IsBid() {
			out = append(out, os)
		}
	}
	return out
}

func (o OpenOrders) AskAmount() quant.Amount {
	sum := quant.Zero()
	for _, os := range o.Asks() {
		sum = sum.Add(os.Amount)
	}
	return sum
}

func (o OpenOrders) BidAmount() quant.Amount {
	sum := quant.Zero()
	for _, os := range o.Bids() {
		sum = sum.Add(os.Amount)
	}
	return sum
}

func (o OpenOrders) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "OpenOrders @ %d\n", o.Timestamp)
	for _, os := range o.Asks() {
		fmt.Fprintf(&sb, "a %s %s %s x%s\n", os.ID, os.Side, os.Price, os.Amount)
	}
	for _, os := range o.Bids() {
		fmt.Fprintf(&sb, "b %s %s %s x%s\n", os.ID, os.Side, os.Price, os.Amount)
	}
	return sb.String()
}
