package policy

import (
	"github.com/0xquote/marketmaker/internal/observation"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

// DepthBasedOffering quotes a single bid and a single ask, each priced one
// tick beyond wherever cumulative book depth first reaches TargetDepth, and
// sized off MaxExposure skewed by the current position. It is a direct
// port of the reference bot's depth-based offering strategy: no teacher
// equivalent exists (the teacher quotes Avellaneda-Stoikov against a
// scanner-driven set of markets, out of scope here), so this is grounded
// entirely on original_source/src/strategies/dbo.rs.
type DepthBasedOffering struct {
	MaxExposure quant.Amount
	TargetDepth quant.Amount
}

func NewDepthBasedOffering(maxExposure, targetDepth quant.Amount) *DepthBasedOffering {
	return &DepthBasedOffering{MaxExposure: maxExposure, TargetDepth: targetDepth}
}

// Evaluate implements Policy. It never quotes while an order submitted this
// cycle is still awaiting a broker reply — a pending order racing a fresh
// reconciliation pass would double up on exposure.
func (p *DepthBasedOffering) Evaluate(obs *observation.Observation) []domain.Order {
	if len(obs.PendingOrders()) > 0 {
		return nil
	}

	var orders []domain.Order

	info := obs.Info()
	ob := obs.Orderbook()
	inv := obs.Inventory()
	open := obs.OpenOrders()

	newAskPrice := info.MaxOrderPrice
	if price, ok := findPriceAtDepth(ob.Asks, p.TargetDepth, open); ok {
		newAskPrice = price.Sub(info.TickSize)
	}
	newBidPrice := info.MinOrderPrice
	if price, ok := findPriceAtDepth(ob.Bids, p.TargetDepth, open); ok {
		newBidPrice = price.Add(info.TickSize)
	}

	position := inv.NetPosition()
	newAskSize := p.MaxExposure.Add(position)
	newBidSize := p.MaxExposure.Sub(position)

	askRemaining := newAskSize
	for _, order := range open.Asks() {
		if order.Price.Equal(newAskPrice) && order.Amount.LessThanOrEqual(askRemaining) {
			askRemaining = askRemaining.Sub(order.Amount)
		} else {
			orders = append(orders, domain.Order{Kind: domain.OrderKindCancel, Cancel: order.ToCancelOrder()})
		}
	}
	if askRemaining.GreaterThanOrEqual(info.MinOrderSize) {
		orders = append(orders, domain.CreateOrder(domain.Limit, domain.Ask, newAskPrice, askRemaining))
	}

	bidRemaining := newBidSize
	for _, order := range open.Bids() {
		if order.Price.Equal(newBidPrice) && order.Amount.LessThanOrEqual(bidRemaining) {
			bidRemaining = bidRemaining.Sub(order.Amount)
		} else {
			orders = append(orders, domain.Order{Kind: domain.OrderKindCancel, Cancel: order.ToCancelOrder()})
		}
	}
	if bidRemaining.GreaterThanOrEqual(info.MinOrderSize) {
		orders = append(orders, domain.CreateOrder(domain.Limit, domain.Bid, newBidPrice, bidRemaining))
	}

	return orders
}

// remainingOrders tracks, per price level, how much of our own resting size
// still needs to be subtracted out of the book so depth accumulation never
// double-counts our own orders. This mirrors dbo.rs's RemainingOrders.
type remainingOrders struct {
	amounts map[string]quant.Amount
}

func newRemainingOrders(open domain.OpenOrders) *remainingOrders {
	amounts := make(map[string]quant.Amount)
	for _, o := range open.Orders {
		key := o.Price.String()
		if existing, ok := amounts[key]; ok {
			amounts[key] = existing.Add(o.Amount)
		} else {
			amounts[key] = o.Amount
		}
	}
	return &remainingOrders{amounts: amounts}
}

func (r *remainingOrders) extract(offer domain.Offer) quant.Amount {
	key := offer.Price.String()
	remaining, ok := r.amounts[key]
	if !ok {
		return quant.Zero()
	}
	if offer.Amount.GreaterThan(remaining) {
		r.amounts[key] = quant.Zero()
		return remaining
	}
	r.amounts[key] = remaining.Sub(offer.Amount)
	return offer.Amount
}

// findPriceAtDepth walks a sorted side of the book, accumulating each
// level's amount net of our own resting size at that price, and returns the
// price of the first level whose cumulative depth reaches target. Returns
// false if the whole side is exhausted before reaching it (the caller then
// clamps to the market's min/max order price).
func findPriceAtDepth(levels []domain.Offer, target quant.Amount, open domain.OpenOrders) (quant.Price, bool) {
	remaining := newRemainingOrders(open)
	sum := quant.Zero()

	for _, offer := range levels {
		amount := offer.Amount.Sub(remaining.extract(offer))
		sum = sum.Add(amount)
		if sum.GreaterThanOrEqual(target) {
			return offer.Price, true
		}
	}
	return quant.Price{}, false
}
