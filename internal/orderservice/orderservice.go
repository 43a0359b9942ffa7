// Package orderservice tracks orders submitted to the broker until a reply
// arrives, and garbage-collects any that never get one. It generalizes the
// retrieval pack's pending-order bookkeeping (a mutex-guarded map plus a
// background ticker that expires stale entries) to the reference bot's
// exact submit-then-GC contract: a goroutine per submission instead of a
// shared poll loop, and a fixed 1s GC tick against a 20s expiry.
package orderservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xquote/marketmaker/pkg/domain"
)

const (
	expiryInterval = 20 * time.Second
	gcTickInterval = 1 * time.Second
)

// Broker is the external exchange integration the order service submits
// through. Its reference implementation lives in internal/broker, wrapping
// the teacher's REST client and EIP-712/HMAC auth.
type Broker interface {
	Submit(ctx context.Context, order domain.Order) domain.OrderResponse
}

// Clock is injected so tests can control time deterministically; production
// code uses realClock.
type Clock interface {
	NowMillis() int64
}

type realClock struct{}

func (realClock) NowMillis() int64 { return time.Now().UnixMilli() }

// Service submits orders to a Broker and tracks which are still in flight.
type Service struct {
	broker Broker
	clock  Clock
	logger *slog.Logger

	mu      sync.Mutex
	pending []domain.PendingOrder

	wg sync.WaitGroup
}

// Start constructs a Service and launches its background GC goroutine. The
// returned Service must have Stop called to release the GC goroutine.
func Start(ctx context.Context, broker Broker, logger *slog.Logger) *Service {
	return startWithClock(ctx, broker, realClock{}, logger)
}

func startWithClock(ctx context.Context, broker Broker, clock Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		broker: broker,
		clock:  clock,
		logger: logger.With("component", "orderservice"),
	}

	s.wg.Add(1)
	go s.gcLoop(ctx)

	return s
}

// Submit hands an order to the broker asynchronously: it records a pending
// entry immediately, then a dedicated goroutine calls the broker and
// removes the entry once the reply arrives (or the call errors out, which
// the Broker interface surfaces as a Rejected response rather than an
// error — matching the reference bot's fire-and-forget submission style).
func (s *Service) Submit(ctx context.Context, order domain.Order) {
	id := domain.PendingId(uuid.NewString())

	s.mu.Lock()
	pending := domain.NewPendingOrder(s.clock.NowMillis(), id, order)
	s.pending = append(s.pending, pending)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.logger.Debug("submit", "pending_id", id, "order", order.String())
		resp := s.broker.Submit(ctx, order)
		s.logger.Debug("reply", "pending_id", id, "response", resp)

		s.mu.Lock()
		s.removeLocked(id)
		s.mu.Unlock()
	}()
}

// PendingOrders returns a snapshot of orders still awaiting a broker reply.
func (s *Service) PendingOrders() []domain.PendingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PendingOrder, len(s.pending))
	copy(out, s.pending)
	return out
}

// Stop waits for all in-flight submit goroutines (and the GC loop, once ctx
// is cancelled by the caller) to finish.
func (s *Service) Stop() {
	s.wg.Wait()
}

func (s *Service) removeLocked(id domain.PendingId) {
	for i, po := range s.pending {
		if po.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

func (s *Service) gcLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(gcTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.gcOnce()
		}
	}
}

func (s *Service) gcOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.NowMillis()
	before := len(s.pending)

	kept := s.pending[:0]
	for _, po := range s.pending {
		if po.Timestamp+expiryInterval.Milliseconds() > now {
			kept = append(kept, po)
		}
	}
	s.pending = kept

	if len(s.pending) != before {
		s.logger.Debug("gc", "before", before, "after", len(s.pending))
	}
}
