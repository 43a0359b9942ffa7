// Package session adapts the teacher's raw WebSocket feeds
// (internal/exchange.WSFeed — auto-reconnecting, envelope-routed,
// read-deadline-checked) into the spec's Market and Status interfaces: typed
// pubsub subscriptions carrying decoded domain.Orderbook/domain.Execution/
// domain.Inventory/domain.OpenOrders snapshots instead of bare protocol
// structs with string-encoded decimals.
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

// Market is the session's public interface to the decision loop: static
// trading-rule metadata plus the two market-data subscriptions.
type Market interface {
	Info() domain.MarketInfo
	Orderbook() *pubsub.Subscription[domain.Orderbook]
	Execution() *pubsub.Subscription[domain.Execution]
}

// MarketSession tracks one token's public order book and trade tape from
// the market WebSocket feed, republishing decoded snapshots on its own
// pubsub topics. It buffers price-change deltas that arrive before the
// first book snapshot (the feed may emit them out of order across a
// reconnect) and replays them once the snapshot lands, so subscribers never
// observe a partially-applied book — a guarantee the teacher's WSFeed never
// made since it only ever handed off bare protocol events.
type MarketSession struct {
	info    domain.MarketInfo
	assetID string
	feed    *exchange.WSFeed
	logger  *slog.Logger

	orderbookTopic *pubsub.Topic[domain.Orderbook]
	executionTopic *pubsub.Topic[domain.Execution]

	book         domain.Orderbook
	writer       *book.OrderbookWriter
	haveSnapshot bool
	buffered     []book.OrderbookOp
}

// NewMarketSession wires a MarketSession to an already-constructed feed
// (internal/exchange.NewMarketFeed) for the given token.
func NewMarketSession(info domain.MarketInfo, assetID string, feed *exchange.WSFeed, logger *slog.Logger) *MarketSession {
	m := &MarketSession{
		info:           info,
		assetID:        assetID,
		feed:           feed,
		logger:         logger.With("component", "market_session"),
		orderbookTopic: pubsub.NewTopic[domain.Orderbook](),
		executionTopic: pubsub.NewTopic[domain.Execution](),
	}
	m.writer = book.NewOrderbookWriter(&m.book)
	return m
}

func (m *MarketSession) Info() domain.MarketInfo { return m.info }

func (m *MarketSession) Orderbook() *pubsub.Subscription[domain.Orderbook] {
	return m.orderbookTopic.Subscribe()
}

func (m *MarketSession) Execution() *pubsub.Subscription[domain.Execution] {
	return m.executionTopic.Subscribe()
}

// Run dispatches feed events until ctx is cancelled. The caller is expected
// to also run feed.Run(ctx) concurrently — MarketSession only consumes the
// feed's decoded channels, it does not own the connection lifecycle.
func (m *MarketSession) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-m.feed.BookEvents():
			if !ok {
				return
			}
			m.handleBookEvent(ev)
		case ev, ok := <-m.feed.PriceChangeEvents():
			if !ok {
				return
			}
			m.handlePriceChangeEvent(ev)
		case ev, ok := <-m.feed.TradeEvents():
			if !ok {
				return
			}
			m.handleTradeEvent(ev)
		}
	}
}

func (m *MarketSession) handleBookEvent(ev types.WSBookEvent) {
	if ev.AssetID != m.assetID {
		return
	}

	asks := decodeLevels(ev.Sells, domain.Ask)
	bids := decodeLevels(ev.Buys, domain.Bid)
	ts := parseTimestampMillis(ev.Timestamp)

	op := book.SnapshotOrderbookOp(ts, asks, bids)
	if err := m.writer.Apply(op); err != nil {
		m.logger.Warn("apply snapshot", "error", err)
		return
	}
	m.haveSnapshot = true

	for _, buffered := range m.buffered {
		if err := m.applyDelta(buffered); err != nil {
			m.logger.Warn("apply buffered delta", "error", err)
		}
	}
	m.buffered = nil

	m.publishBook()
}

func (m *MarketSession) handlePriceChangeEvent(ev types.WSPriceChangeEvent) {
	var ops []book.OrderbookOp
	for _, pc := range ev.PriceChanges {
		if pc.AssetID != m.assetID {
			continue
		}
		ops = append(ops, priceChangeToOp(pc, parseTimestampMillis(ev.Timestamp)))
	}
	if len(ops) == 0 {
		return
	}

	if !m.haveSnapshot {
		m.buffered = append(m.buffered, ops...)
		return
	}

	for _, op := range ops {
		if err := m.applyDelta(op); err != nil && err != book.ErrOfferNotFound {
			m.logger.Warn("apply delta", "error", err)
		}
	}
	m.publishBook()
}

// applyDelta applies one price-change op; an Update for a level not yet in
// the book is applied as a Create instead.
func (m *MarketSession) applyDelta(op book.OrderbookOp) error {
	err := m.writer.Apply(op)
	if err == book.ErrOfferNotFound && op.Kind == book.OrderbookUpdate {
		err = m.writer.Apply(book.CreateOrderbookOp(op.Timestamp, op.ID, op.Side, *op.Price, *op.Amount))
	}
	return err
}

func (m *MarketSession) handleTradeEvent(ev types.WSTradeEvent) {
	if ev.AssetID != m.assetID {
		return
	}

	price, err := quant.NewFromString(ev.Price)
	if err != nil {
		m.logger.Warn("parse trade price", "error", err)
		return
	}
	amount, err := quant.NewFromString(ev.Size)
	if err != nil {
		m.logger.Warn("parse trade size", "error", err)
		return
	}

	side := domain.Ask
	if ev.Side == "BUY" {
		side = domain.Bid
	}

	m.executionTopic.Publish(domain.NewExecution(parseTimestampMillis(ev.Timestamp), domain.TradeId(ev.ID), side, price, amount))
}

func (m *MarketSession) publishBook() {
	m.orderbookTopic.Publish(m.book)
}

// priceChangeToOp treats a zero resulting size as a Delete (the level is
// gone) and a nonzero size as an upsert via Update (applyDelta turns an
// Update of a level not yet in the book into a Create) — the market WS protocol
// has no concept of a distinct offer id per level, so the level's price is
// also used as its identity for this translation.
func priceChangeToOp(pc types.WSPriceChange, ts int64) book.OrderbookOp {
	side := domain.Ask
	if pc.Side == "BUY" {
		side = domain.Bid
	}
	id := domain.OfferId(pc.Price)

	size, err := quant.NewFromString(pc.Size)
	if err != nil || size.IsZero() {
		return book.DeleteOrderbookOp(ts, id, side)
	}

	price, _ := quant.NewFromString(pc.Price)
	return book.UpdateOrderbookOp(ts, id, side, &price, &size)
}

func decodeLevels(levels []types.PriceLevel, side domain.Side) []domain.Offer {
	offers := make([]domain.Offer, 0, len(levels))
	for _, lvl := range levels {
		price, err := quant.NewFromString(lvl.Price)
		if err != nil {
			continue
		}
		amount, err := quant.NewFromString(lvl.Size)
		if err != nil {
			continue
		}
		offers = append(offers, domain.NewOffer(domain.OfferId(lvl.Price), price, amount))
	}
	if side.IsAsk() {
		sortAscending(offers)
	} else {
		sortDescending(offers)
	}
	return offers
}

func sortAscending(offers []domain.Offer) {
	for i := 1; i < len(offers); i++ {
		for j := i; j > 0 && offers[j].Price.LessThan(offers[j-1].Price); j-- {
			offers[j], offers[j-1] = offers[j-1], offers[j]
		}
	}
}

func sortDescending(offers []domain.Offer) {
	for i := 1; i < len(offers); i++ {
		for j := i; j > 0 && offers[j].Price.GreaterThan(offers[j-1].Price); j-- {
			offers[j], offers[j-1] = offers[j-1], offers[j]
		}
	}
}
