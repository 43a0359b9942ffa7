// Package engine runs the core decision loop: warm up an Observation from a
// market and status session, then repeatedly select on the four data
// sources, re-evaluate the policy whenever the order book changes, and
// submit whatever orders the policy returns through the order service. It is
// the Go counterpart of the reference bot's Bot::run, built the same
// select-then-dispatch shape the teacher's engine.go used for its own
// manageMarkets loop, but driven by the narrower Market/Status/Policy/Broker
// seams instead of the teacher's Avellaneda-Stoikov-specific
// scanner/risk/dashboard orchestration, which is out of scope here.
package engine

import (
	"context"
	"log/slog"

	"github.com/0xquote/marketmaker/internal/observation"
	"github.com/0xquote/marketmaker/internal/orderservice"
	"github.com/0xquote/marketmaker/internal/policy"
	"github.com/0xquote/marketmaker/internal/pubsub"
	"github.com/0xquote/marketmaker/pkg/domain"
)

// Market is the session-layer seam the engine consumes for public market
// data, mirroring internal/session.Market so the engine never imports
// internal/session directly.
type Market interface {
	Info() domain.MarketInfo
	Orderbook() *pubsub.Subscription[domain.Orderbook]
	Execution() *pubsub.Subscription[domain.Execution]
}

// Status is the session-layer seam for our own inventory and open orders.
type Status interface {
	Inventory() *pubsub.Subscription[domain.Inventory]
	OpenOrders() *pubsub.Subscription[domain.OpenOrders]
}

// Config controls how many iterations the decision loop runs and whether it
// actually submits orders, matching the reference bot's Config exactly —
// NumIteration bounds a run (for tests and backtests), and Test suppresses
// submission while still running the policy and logging its output.
type Config struct {
	NumIteration int
	Test         bool
}

// Bot drives one market's decision loop.
type Bot struct {
	config  Config
	market  Market
	status  Status
	policy  policy.Policy
	orders  *orderservice.Service
	logger  *slog.Logger
}

// New wires a Bot. The order service is started internally, the same
// ownership the reference Bot::new has of its OrderService.
func New(ctx context.Context, config Config, market Market, status Status, broker orderservice.Broker, pol policy.Policy, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "engine")
	return &Bot{
		config: config,
		market: market,
		status: status,
		policy: pol,
		orders: orderservice.Start(ctx, broker, logger),
		logger: logger,
	}
}

// Run warms up the observation, then iterates the select loop until ctx is
// cancelled or config.NumIteration iterations have run (0 means unbounded).
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("starting", "config", b.config)

	info := b.market.Info()
	b.logger.Info("market info", "info", info)

	execution := b.market.Execution()
	orderbook := b.market.Orderbook()
	inventory := b.status.Inventory()
	openOrders := b.status.OpenOrders()

	b.logger.Info("warming up observation")
	obs, err := observation.Warmup(ctx, info, observation.Sources{
		Execution:  execution.C(),
		Orderbook:  orderbook.C(),
		Inventory:  inventory.C(),
		OpenOrders: openOrders.C(),
	})
	if err != nil {
		return err
	}

	for i := 0; b.config.NumIteration == 0 || i < b.config.NumIteration; i++ {
		target := false

		select {
		case <-ctx.Done():
			b.orders.Stop()
			return ctx.Err()
		case e, ok := <-execution.C():
			if !ok {
				return nil
			}
			b.logger.Debug("receive execution", "iteration", i)
			obs.InsertExecution(e)
		case bk, ok := <-orderbook.C():
			if !ok {
				return nil
			}
			b.logger.Debug("receive orderbook", "iteration", i)
			obs.UpdateOrderbook(bk)
			target = true
		case inv, ok := <-inventory.C():
			if !ok {
				return nil
			}
			b.logger.Debug("receive inventory", "iteration", i)
			obs.UpdateInventory(inv)
		case oo, ok := <-openOrders.C():
			if !ok {
				return nil
			}
			b.logger.Debug("receive open_orders", "iteration", i)
			obs.UpdateOpenOrders(oo)
		}

		if !target {
			continue
		}

		obs.UpdatePendingOrders(pendingAsOrders(b.orders.PendingOrders()))

		b.logger.Debug("observation", "orderbook", obs.Orderbook(), "open_orders", obs.OpenOrders(),
			"inventory", obs.Inventory(), "pending_orders", obs.PendingOrders())

		b.logger.Debug("evaluating policy", "iteration", i)
		orders := b.policy.Evaluate(obs)
		b.logger.Debug("policy output", "orders", orders)

		if len(orders) > 0 && !b.config.Test {
			for _, order := range orders {
				b.orders.Submit(ctx, order)
			}
		}
	}

	return nil
}

func pendingAsOrders(pending []domain.PendingOrder) []domain.Order {
	out := make([]domain.Order, len(pending))
	for i, po := range pending {
		out[i] = po.Order
	}
	return out
}
