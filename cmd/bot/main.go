// Polymarket Market Maker — an automated market-making bot quoting a single
// Polymarket binary-market token using a depth-based offering policy.
//
// Architecture:
//
//	main.go                  — entry point: loads config, starts the engine, waits for SIGINT/SIGTERM
//	internal/engine          — core decision loop (Bot): warms up an Observation, re-evaluates a Policy on every order-book update
//	internal/policy/depth.go — DepthBasedOffering: quotes at the price where cumulative book depth reaches a target, net of our own resting size
//	internal/session         — decodes the teacher's raw WS feeds into typed Orderbook/Execution/Inventory/OpenOrders pubsub topics
//	internal/broker          — adapts the REST client + EIP-712/HMAC auth to the core's minimal Broker seam
//	internal/orderservice    — tracks orders submitted to the broker until a reply arrives, garbage-collecting stale ones
//	internal/exchange        — REST client, WebSocket feeds, and L1/L2 auth for the Polymarket CLOB API
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xquote/marketmaker/internal/broker"
	"github.com/0xquote/marketmaker/internal/config"
	"github.com/0xquote/marketmaker/internal/engine"
	"github.com/0xquote/marketmaker/internal/exchange"
	"github.com/0xquote/marketmaker/internal/policy"
	"github.com/0xquote/marketmaker/internal/session"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("POLY_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	if cfg.DryRun {
		logger.Warn("DRY-RUN MODE — no real orders will be placed")
	}

	runDepthEngine(*cfg, logger)
}

// runDepthEngine wires up the core decision loop against the single
// configured token: a market/status session pair over the teacher's
// WebSocket feeds, a depth-based policy, and a broker adapter over the
// teacher's REST client.
func runDepthEngine(cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auth, err := exchange.NewAuth(cfg)
	if err != nil {
		logger.Error("failed to create auth", "error", err)
		os.Exit(1)
	}
	client := exchange.NewClient(cfg, auth, logger)

	info, err := fetchMarketInfo(ctx, client, cfg.Core.TokenID)
	if err != nil {
		logger.Error("failed to fetch market info", "error", err)
		os.Exit(1)
	}

	marketFeed := exchange.NewMarketFeed(cfg.API.WSMarketURL, logger)
	userFeed := exchange.NewUserFeed(cfg.API.WSUserURL, auth, logger)

	marketSession := session.NewMarketSession(info, cfg.Core.TokenID, marketFeed, logger)
	statusSession := session.NewStatusSession(userFeed, logger)

	pol := policy.NewDepthBasedOffering(
		quant.NewFromFloat(cfg.Core.MaxExposure),
		quant.NewFromFloat(cfg.Core.TargetDepth),
	)

	brkr := broker.NewPolymarketBroker(client, cfg.Core.TokenID, info, cfg.Core.NegRisk, logger)

	bot := engine.New(ctx, engine.Config{
		NumIteration: cfg.Core.NumIteration,
		Test:         cfg.Core.Test,
	}, marketSession, statusSession, brkr, pol, logger)

	go func() {
		if err := marketFeed.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("market feed stopped", "error", err)
		}
	}()
	go func() {
		if err := userFeed.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("user feed stopped", "error", err)
		}
	}()
	go marketSession.Run(ctx)
	go statusSession.Run(ctx)

	if err := marketFeed.Subscribe(ctx, []string{cfg.Core.TokenID}); err != nil {
		logger.Error("failed to subscribe to market feed", "error", err)
	}

	logger.Info("depth engine started", "token_id", cfg.Core.TokenID, "dry_run", cfg.DryRun)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runErr := make(chan error, 1)
	go func() { runErr <- bot.Run(ctx) }()

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
		<-runErr
	case err := <-runErr:
		if err != nil {
			logger.Error("decision loop stopped", "error", err)
		}
	}
}

func fetchMarketInfo(ctx context.Context, client *exchange.Client, tokenID string) (domain.MarketInfo, error) {
	book, err := client.GetOrderBook(ctx, tokenID)
	if err != nil {
		return domain.MarketInfo{}, fmt.Errorf("get order book: %w", err)
	}

	tick, err := quant.NewFromString(book.TickSize)
	if err != nil {
		tick = quant.NewFromFloat(0.01)
	}
	minSize, err := quant.NewFromString(book.MinOrderSize)
	if err != nil {
		minSize = quant.Zero()
	}

	return domain.MarketInfo{
		MinOrderSize:  minSize,
		MaxOrderSize:  quant.NewFromFloat(1_000_000),
		LotSize:       minSize,
		MinOrderPrice: quant.NewFromFloat(0),
		MaxOrderPrice: quant.NewFromFloat(1),
		TickSize:      tick,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
