package orderservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func (c *fakeClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
}

type blockingBroker struct {
	release chan struct{}
	calls   chan domain.Order
}

func newBlockingBroker() *blockingBroker {
	return &blockingBroker{release: make(chan struct{}), calls: make(chan domain.Order, 16)}
}

func (b *blockingBroker) Submit(ctx context.Context, order domain.Order) domain.OrderResponse {
	b.calls <- order
	<-b.release
	return domain.AcceptedResponse("filled")
}

func sampleOrder() domain.Order {
	return domain.CreateOrder(domain.Limit, domain.Ask, quant.NewFromFloat(100), quant.NewFromFloat(1))
}

func TestSubmitTracksPendingUntilReply(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := newBlockingBroker()
	clock := &fakeClock{}
	svc := startWithClock(ctx, broker, clock, nil)

	svc.Submit(ctx, sampleOrder())
	<-broker.calls

	if got := len(svc.PendingOrders()); got != 1 {
		t.Fatalf("PendingOrders() len = %d, want 1", got)
	}

	close(broker.release)

	deadline := time.After(time.Second)
	for len(svc.PendingOrders()) != 0 {
		select {
		case <-deadline:
			t.Fatalf("pending order never cleared after broker reply")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestGCExpiresStalePendingOrders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := newBlockingBroker()
	clock := &fakeClock{}
	svc := startWithClock(ctx, broker, clock, nil)

	svc.Submit(ctx, sampleOrder())
	<-broker.calls

	if got := len(svc.PendingOrders()); got != 1 {
		t.Fatalf("PendingOrders() len = %d, want 1", got)
	}

	clock.advance(expiryInterval.Milliseconds() + 1)
	svc.gcOnce()

	if got := len(svc.PendingOrders()); got != 0 {
		t.Fatalf("PendingOrders() len = %d, want 0 after expiry", got)
	}

	close(broker.release)
}

func TestGCKeepsFreshPendingOrders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := newBlockingBroker()
	clock := &fakeClock{}
	svc := startWithClock(ctx, broker, clock, nil)

	svc.Submit(ctx, sampleOrder())
	<-broker.calls

	clock.advance(expiryInterval.Milliseconds() - 1)
	svc.gcOnce()

	if got := len(svc.PendingOrders()); got != 1 {
		t.Fatalf("PendingOrders() len = %d, want 1 (not yet expired)", got)
	}

	close(broker.release)
}
