package domain

import (
	"fmt"
	"strings"

	"github.com/0xquote/marketmaker/pkg/quant"
)

// Offer is a single resting entry in a public order book.
type Offer struct {
	ID     OfferId
	Price  quant.Price
	Amount quant.Amount
}

func NewOffer(id OfferId, price, amount quant.Amount) Offer {
	return Offer{ID: id, Price: price, Amount: amount}
}

// Orderbook is a snapshot of one market's public book. Asks are kept sorted
// ascending by price (best ask first); bids are kept sorted descending by
// price (best bid first) — the same convention the teacher's OrderBookSnapshot
// fields document for Bids/Asks.
type Orderbook struct {
	Timestamp int64 // unix millis
	Asks      []Offer
	Bids      []Offer
}

func NewOrderbook(timestamp int64, asks, bids []Offer) Orderbook {
	return Orderbook{Timestamp: timestamp, Asks: asks, Bids: bids}
}

func (b Orderbook) BestAsk() (Offer, bool) {
	if len(b.Asks) == 0 {
		return Offer{}, false
	}
	return b.Asks[0], true
}

func (b Orderbook) BestBid() (Offer, bool) {
	if len(b.Bids) == 0 {
		return Offer{}, false
	}
	return b.Bids[0], true
}

func (b Orderbook) MidPrice() (quant.Price, bool) {
	ask, ok := b.BestAsk()
	if !ok {
		return quant.Price{}, false
	}
	bid, ok := b.BestBid()
	if !ok {
		return quant.Price{}, false
	}
	two := quant.NewFromFloat(2)
	return ask.Price.Add(bid.Price).Div(two), true
}

func (b Orderbook) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Orderbook @ %d\n", b.Timestamp)
	for i := len(b.Asks) - 1; i >= 0; i-- {
		o := b.Asks[i]
		fmt.Fprintf(&sb, "a %s %s x%s\n", o.ID, o.Price, o.Amount)
	}
	for _, o := range b.Bids {
		fmt.Fprintf(&sb, "b %s %s x%s\n", o.ID, o.Price, o.Amount)
	}
	return sb.String()
}
