// Package domain is the common vocabulary of the market-making core: the
// side/order/orderbook/execution/inventory types every component in
// internal/ shares. It has no dependency on internal packages so any layer
// can import it, the same role the teacher's pkg/types plays for the
// Polymarket wire vocabulary.
package domain

import (
	"fmt"

	"github.com/0xquote/marketmaker/pkg/quant"
)

// OrderId identifies a resting order on the exchange.
type OrderId string

// OfferId identifies a single price level entry in a public order book.
type OfferId string

// TradeId identifies an executed trade (fill).
type TradeId string

// Side is the direction of an order or resting offer.
type Side int

const (
	Ask Side = iota
	Bid
)

// Opposite returns the other side, used to derive a fill's taker side from
// its maker side.
func (s Side) Opposite() Side {
	if s == Ask {
		return Bid
	}
	return Ask
}

func (s Side) IsAsk() bool { return s == Ask }
func (s Side) IsBid() bool { return s == Bid }

func (s Side) String() string {
	if s == Ask {
		return "ask"
	}
	return "bid"
}

// OrderType is the execution style of a new order.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "limit"
	}
	return "market"
}

// NewOrder is a request to place a new resting order.
type NewOrder struct {
	OrderType OrderType
	Side      Side
	Price     quant.Price
	Amount    quant.Amount
}

// CancelOrder is a request to pull a resting order by id.
type CancelOrder struct {
	ID OrderId
}

// Order is the tagged union the policy layer emits: either a new order to
// place, or a cancellation of an existing one. Go has no sum types, so the
// discriminant lives in Kind and exactly one of New/Cancel is populated —
// the same struct-plus-discriminant shape the teacher uses for QuotePair's
// optional Bid/Ask.
type OrderKind int

const (
	OrderKindNew OrderKind = iota
	OrderKindCancel
)

type Order struct {
	Kind   OrderKind
	New    NewOrder
	Cancel CancelOrder
}

// CreateOrder builds a new-order request.
func CreateOrder(orderType OrderType, side Side, price, amount quant.Amount) Order {
	return Order{
		Kind: OrderKindNew,
		New: NewOrder{
			OrderType: orderType,
			Side:      side,
			Price:     price,
			Amount:    amount,
		},
	}
}

// CancelOrderRequest builds a cancel request for the given order id.
func CancelOrderRequest(id OrderId) Order {
	return Order{Kind: OrderKindCancel, Cancel: CancelOrder{ID: id}}
}

func (o Order) String() string {
	switch o.Kind {
	case OrderKindNew:
		return fmt.Sprintf("New(%s %s @%s x%s)", o.New.OrderType, o.New.Side, o.New.Price, o.New.Amount)
	case OrderKindCancel:
		return fmt.Sprintf("Cancel(%s)", o.Cancel.ID)
	default:
		return "Order(?)"
	}
}

// OrderResponse is the broker's reply to a submitted order.
type OrderResponseKind int

const (
	OrderAccepted OrderResponseKind = iota
	OrderRejected
)

type OrderResponse struct {
	Kind OrderResponseKind
	ID   OrderId // only set when Kind == OrderAccepted
}

func AcceptedResponse(id OrderId) OrderResponse {
	return OrderResponse{Kind: OrderAccepted, ID: id}
}

func RejectedResponse() OrderResponse {
	return OrderResponse{Kind: OrderRejected}
}
