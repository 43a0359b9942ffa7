package broker

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/0xquote/marketmaker/internal/config"
	"github.com/0xquote/marketmaker/internal/exchange"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func dryRunBroker(t *testing.T) *PolymarketBroker {
	t.Helper()
	cfg := config.Config{DryRun: true}
	cfg.API.CLOBBaseURL = "https://clob.example"
	client := exchange.NewClient(cfg, nil, testLogger())

	info := domain.MarketInfo{TickSize: quant.NewFromFloat(0.01)}
	return NewPolymarketBroker(client, "token-1", info, false, testLogger())
}

func TestSubmitNewOrderAccepted(t *testing.T) {
	b := dryRunBroker(t)

	order := domain.CreateOrder(domain.Limit, domain.Ask, quant.NewFromFloat(0.55), quant.NewFromFloat(10))
	resp := b.Submit(context.Background(), order)

	if resp.Kind != domain.OrderAccepted {
		t.Fatalf("resp.Kind = %v, want OrderAccepted", resp.Kind)
	}
	if resp.ID == "" {
		t.Fatalf("resp.ID is empty")
	}
}

func TestSubmitCancelAccepted(t *testing.T) {
	b := dryRunBroker(t)

	order := domain.CancelOrderRequest(domain.OrderId("order-1"))
	resp := b.Submit(context.Background(), order)

	if resp.Kind != domain.OrderAccepted {
		t.Fatalf("resp.Kind = %v, want OrderAccepted", resp.Kind)
	}
	if resp.ID != domain.OrderId("order-1") {
		t.Fatalf("resp.ID = %v, want order-1", resp.ID)
	}
}

func TestSideToProtocol(t *testing.T) {
	if sideToProtocol(domain.Bid) != "BUY" {
		t.Fatalf("Bid should map to BUY")
	}
	if sideToProtocol(domain.Ask) != "SELL" {
		t.Fatalf("Ask should map to SELL")
	}
}

func TestTickSizeOf(t *testing.T) {
	cases := []struct {
		tick float64
		want string
	}{
		{0.1, "0.1"},
		{0.01, "0.01"},
		{0.001, "0.001"},
		{0.0001, "0.0001"},
	}
	for _, c := range cases {
		got := tickSizeOf(quant.NewFromFloat(c.tick))
		if string(got) != c.want {
			t.Errorf("tickSizeOf(%v) = %v, want %v", c.tick, got, c.want)
		}
	}
}
