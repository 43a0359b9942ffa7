package engine

import (
	"context"
	"testing"
	"time"

	"github.com/0xquote/marketmaker/internal/observation"
	"github.com/0xquote/marketmaker/internal/pubsub"
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

type fakeMarket struct {
	info       domain.MarketInfo
	orderbook  *pubsub.Topic[domain.Orderbook]
	execution  *pubsub.Topic[domain.Execution]
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		info:      domain.MarketInfo{},
		orderbook: pubsub.NewTopic[domain.Orderbook](),
		execution: pubsub.NewTopic[domain.Execution](),
	}
}

func (m *fakeMarket) Info() domain.MarketInfo                           { return m.info }
func (m *fakeMarket) Orderbook() *pubsub.Subscription[domain.Orderbook] { return m.orderbook.Subscribe() }
func (m *fakeMarket) Execution() *pubsub.Subscription[domain.Execution] { return m.execution.Subscribe() }

type fakeStatus struct {
	inventory  *pubsub.Topic[domain.Inventory]
	openOrders *pubsub.Topic[domain.OpenOrders]
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{
		inventory:  pubsub.NewTopic[domain.Inventory](),
		openOrders: pubsub.NewTopic[domain.OpenOrders](),
	}
}

func (s *fakeStatus) Inventory() *pubsub.Subscription[domain.Inventory]   { return s.inventory.Subscribe() }
func (s *fakeStatus) OpenOrders() *pubsub.Subscription[domain.OpenOrders] { return s.openOrders.Subscribe() }

type countingPolicy struct {
	calls  chan *observation.Observation
	output []domain.Order
}

func (p *countingPolicy) Evaluate(obs *observation.Observation) []domain.Order {
	p.calls <- obs
	return p.output
}

type recordingBroker struct {
	submitted chan domain.Order
}

func (b *recordingBroker) Submit(ctx context.Context, order domain.Order) domain.OrderResponse {
	b.submitted <- order
	return domain.AcceptedResponse(domain.OrderId("x"))
}

func TestRunEvaluatesOnlyOnOrderbookUpdate(t *testing.T) {
	market := newFakeMarket()
	status := newFakeStatus()
	pol := &countingPolicy{calls: make(chan *observation.Observation, 8)}
	broker := &recordingBroker{submitted: make(chan domain.Order, 8)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	market.orderbook.Publish(domain.NewOrderbook(0, nil, nil))
	status.inventory.Publish(domain.NewPositionInventory(quant.Zero()))
	status.openOrders.Publish(domain.NewOpenOrders(0, nil))

	bot := New(ctx, Config{NumIteration: 1, Test: true}, market, status, broker, pol, nil)

	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	market.orderbook.Publish(domain.NewOrderbook(1, nil, nil))

	select {
	case <-pol.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("policy was never evaluated after orderbook update")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after NumIteration reached")
	}
}

func TestRunSkipsSubmissionInTestMode(t *testing.T) {
	market := newFakeMarket()
	status := newFakeStatus()
	pol := &countingPolicy{
		calls:  make(chan *observation.Observation, 8),
		output: []domain.Order{domain.CreateOrder(domain.Limit, domain.Ask, quant.NewFromFloat(0.5), quant.NewFromFloat(1))},
	}
	broker := &recordingBroker{submitted: make(chan domain.Order, 8)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	market.orderbook.Publish(domain.NewOrderbook(0, nil, nil))
	status.inventory.Publish(domain.NewPositionInventory(quant.Zero()))
	status.openOrders.Publish(domain.NewOpenOrders(0, nil))

	bot := New(ctx, Config{NumIteration: 1, Test: true}, market, status, broker, pol, nil)

	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	market.orderbook.Publish(domain.NewOrderbook(1, nil, nil))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	select {
	case order := <-broker.submitted:
		t.Fatalf("broker received order in test mode: %v", order)
	default:
	}
}
