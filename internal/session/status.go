package session

import (
	"context"
	"log/slog"

	"github.com/0xquote/marketmaker/internal/book"
	"github.com/0xquote/marketmaker/internal/exchange"
	"github.com/0xquote/marketmaker/internal/pubsub"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
	"github.com/0xquote/marketmaker/pkg/types"
)

// Status is the session's public interface to the decision loop: our own
// inventory and open-orders subscriptions.
type Status interface {
	Inventory() *pubsub.Subscription[domain.Inventory]
	OpenOrders() *pubsub.Subscription[domain.OpenOrders]
}

// StatusSession tracks our own resting orders and net position from the
// user WebSocket feed, symmetric to MarketSession. It blocks nothing
// itself — the gate on the initial snapshot is the decision loop's
// observation.Warmup, which is why Run publishes every open-orders
// snapshot unconditionally rather than buffering like MarketSession does.
type StatusSession struct {
	feed   *exchange.WSFeed
	logger *slog.Logger

	inventoryTopic  *pubsub.Topic[domain.Inventory]
	openOrdersTopic *pubsub.Topic[domain.OpenOrders]

	openOrders domain.OpenOrders
	writer     *book.OpenOrdersWriter
	position   quant.Amount
}

func NewStatusSession(feed *exchange.WSFeed, logger *slog.Logger) *StatusSession {
	s := &StatusSession{
		feed:            feed,
		logger:          logger.With("component", "status_session"),
		inventoryTopic:  pubsub.NewTopic[domain.Inventory](),
		openOrdersTopic: pubsub.NewTopic[domain.OpenOrders](),
		position:        quant.Zero(),
	}
	s.writer = book.NewOpenOrdersWriter(&s.openOrders)
	return s
}

func (s *StatusSession) Inventory() *pubsub.Subscription[domain.Inventory] {
	return s.inventoryTopic.Subscribe()
}

func (s *StatusSession) OpenOrders() *pubsub.Subscription[domain.OpenOrders] {
	return s.openOrdersTopic.Subscribe()
}

// Run dispatches user-feed events until ctx is cancelled, the same
// split-loop convention as MarketSession.Run.
func (s *StatusSession) Run(ctx context.Context) {
	// Publish the zero-position and empty-orders snapshots up front so
	// observation.Warmup's gate is satisfied even before the first live
	// event arrives — the teacher's REST client exposes no GET /orders
	// endpoint to seed a real initial snapshot from (see DESIGN.md).
	s.inventoryTopic.Publish(domain.NewPositionInventory(s.position))
	s.openOrdersTopic.Publish(s.openOrders)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.feed.OrderEvents():
			if !ok {
				return
			}
			s.handleOrderEvent(ev)
		case ev, ok := <-s.feed.TradeEvents():
			if !ok {
				return
			}
			s.handleTradeEvent(ev)
		}
	}
}

func (s *StatusSession) handleOrderEvent(ev types.WSOrderEvent) {
	ts := parseTimestampMillis(ev.Timestamp)
	id := domain.OrderId(ev.ID)

	price, err := quant.NewFromString(ev.Price)
	if err != nil {
		s.logger.Warn("parse order price", "error", err)
		return
	}
	originalSize, err := quant.NewFromString(ev.OriginalSize)
	if err != nil {
		s.logger.Warn("parse order size", "error", err)
		return
	}
	matched, err := quant.NewFromString(ev.SizeMatched)
	if err != nil {
		matched = quant.Zero()
	}
	remaining := originalSize.Sub(matched)

	side := domain.Ask
	if ev.Side == "BUY" {
		side = domain.Bid
	}

	var applyErr error
	switch ev.Type {
	case "PLACEMENT":
		applyErr = s.writer.Apply(book.CreateOpenOrdersOp(ts, id, side, price, remaining))
	case "UPDATE":
		applyErr = s.writer.Apply(book.UpdateOpenOrdersOp(ts, id, &side, &price, &remaining))
	case "CANCELLATION":
		applyErr = s.writer.Apply(book.DeleteOpenOrdersOp(ts, id))
	default:
		return
	}
	if applyErr != nil {
		s.logger.Debug("apply open order op", "type", ev.Type, "order_id", id, "error", applyErr)
		return
	}

	s.openOrdersTopic.Publish(s.openOrders)
}

func (s *StatusSession) handleTradeEvent(ev types.WSTradeEvent) {
	amount, err := quant.NewFromString(ev.Size)
	if err != nil {
		s.logger.Warn("parse fill size", "error", err)
		return
	}

	if ev.Side == "BUY" {
		s.position = s.position.Add(amount)
	} else {
		s.position = s.position.Sub(amount)
	}

	s.inventoryTopic.Publish(domain.NewPositionInventory(s.position))
}
