// Package broker adapts the teacher's concrete Polymarket REST client
// (internal/exchange.Client, with its EIP-712/HMAC auth, resty retry, and
// rate limiting) to the core's minimal Broker interface
// (orderservice.Broker: Submit(ctx, Order) OrderResponse). This is the
// spec's "external broker" named out of core scope in spec.md §6, but kept
// here as the concrete reference implementation rather than a stub so the
// teacher's auth/client/rate-limit stack stays genuinely exercised.
package broker

import (
	"context"
	"log/slog"

	"github.com/0xquote/marketmaker/internal/exchange"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
	"github.com/0xquote/marketmaker/pkg/types"
)

// PolymarketBroker submits depth-policy orders for a single token against
// the Polymarket CLOB.
type PolymarketBroker struct {
	client   *exchange.Client
	tokenID  string
	tickSize types.TickSize
	negRisk  bool
	logger   *slog.Logger
}

func NewPolymarketBroker(client *exchange.Client, tokenID string, info domain.MarketInfo, negRisk bool, logger *slog.Logger) *PolymarketBroker {
	return &PolymarketBroker{
		client:   client,
		tokenID:  tokenID,
		tickSize: tickSizeOf(info.TickSize),
		negRisk:  negRisk,
		logger:   logger.With("component", "broker"),
	}
}

// Submit implements orderservice.Broker.
func (b *PolymarketBroker) Submit(ctx context.Context, order domain.Order) domain.OrderResponse {
	switch order.Kind {
	case domain.OrderKindNew:
		return b.submitNew(ctx, order.New)
	case domain.OrderKindCancel:
		return b.submitCancel(ctx, order.Cancel)
	default:
		return domain.RejectedResponse()
	}
}

func (b *PolymarketBroker) submitNew(ctx context.Context, n domain.NewOrder) domain.OrderResponse {
	price, _ := n.Price.Float64()
	size, _ := n.Amount.Float64()

	uo := types.UserOrder{
		TokenID:   b.tokenID,
		Price:     price,
		Size:      size,
		Side:      sideToProtocol(n.Side),
		OrderType: types.OrderTypeGTC,
		TickSize:  b.tickSize,
	}

	results, err := b.client.PostOrders(ctx, []types.UserOrder{uo}, b.negRisk)
	if err != nil {
		b.logger.Warn("post order", "error", err)
		return domain.RejectedResponse()
	}
	if len(results) == 0 || !results[0].Success {
		return domain.RejectedResponse()
	}
	return domain.AcceptedResponse(domain.OrderId(results[0].OrderID))
}

func (b *PolymarketBroker) submitCancel(ctx context.Context, c domain.CancelOrder) domain.OrderResponse {
	resp, err := b.client.CancelOrders(ctx, []string{string(c.ID)})
	if err != nil {
		b.logger.Warn("cancel order", "error", err)
		return domain.RejectedResponse()
	}
	for _, id := range resp.Canceled {
		if id == string(c.ID) {
			return domain.AcceptedResponse(c.ID)
		}
	}
	return domain.RejectedResponse()
}

func sideToProtocol(side domain.Side) types.Side {
	if side.IsBid() {
		return types.BUY
	}
	return types.SELL
}

func tickSizeOf(tick quant.Price) types.TickSize {
	switch {
	case tick.Equal(quant.NewFromFloat(0.1)):
		return types.Tick01
	case tick.Equal(quant.NewFromFloat(0.001)):
		return types.Tick0001
	case tick.Equal(quant.NewFromFloat(0.0001)):
		return types.Tick00001
	default:
		return types.Tick001
	}
}
