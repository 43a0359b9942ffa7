// Package observation owns the decision loop's aggregate view of the world:
// the latest orderbook/inventory/open-orders snapshot, every execution seen
// since warmup began (the list is never cleared), and the orders still in flight at the
// order service. The teacher's maker.go builds an equivalent picture ad hoc
// inline in quoteUpdate (mid price, position, risk report gathered right
// before computing quotes); this promotes that into the named, owned type
// the policy layer consumes.
package observation

import (
	"context"
	"fmt"

	"github.com/0xquote/marketmaker/pkg/domain"
)

// Observation is the decision loop's current view of one market.
type Observation struct {
	info          domain.MarketInfo
	executions    []domain.Execution
	orderbook     domain.Orderbook
	inventory     domain.Inventory
	openOrders    domain.OpenOrders
	pendingOrders []domain.Order
}

func New(
	info domain.MarketInfo,
	executions []domain.Execution,
	orderbook domain.Orderbook,
	inventory domain.Inventory,
	openOrders domain.OpenOrders,
	pendingOrders []domain.Order,
) *Observation {
	return &Observation{
		info:          info,
		executions:    executions,
		orderbook:     orderbook,
		inventory:     inventory,
		openOrders:    openOrders,
		pendingOrders: pendingOrders,
	}
}

func (o *Observation) Info() domain.MarketInfo          { return o.info }
func (o *Observation) Executions() []domain.Execution    { return o.executions }
func (o *Observation) Orderbook() domain.Orderbook       { return o.orderbook }
func (o *Observation) Inventory() domain.Inventory       { return o.inventory }
func (o *Observation) OpenOrders() domain.OpenOrders     { return o.openOrders }
func (o *Observation) PendingOrders() []domain.Order     { return o.pendingOrders }

func (o *Observation) InsertExecution(e domain.Execution) { o.executions = append(o.executions, e) }
func (o *Observation) UpdateOrderbook(b domain.Orderbook)  { o.orderbook = b }
func (o *Observation) UpdateInventory(i domain.Inventory)  { o.inventory = i }
func (o *Observation) UpdateOpenOrders(oo domain.OpenOrders) {
	o.openOrders = oo
}
func (o *Observation) UpdatePendingOrders(p []domain.Order) { o.pendingOrders = p }

// Sources is the set of channels Warmup and the decision loop select over.
// Each is expected to deliver an initial snapshot before the gating
// condition in Warmup is satisfied, exactly as the original bot blocks on
// orderbook/inventory/open_orders before its first iteration (Execution has
// no required initial value — a market can simply not have traded yet).
type Sources struct {
	Execution  <-chan domain.Execution
	Orderbook  <-chan domain.Orderbook
	Inventory  <-chan domain.Inventory
	OpenOrders <-chan domain.OpenOrders
}

// Warmup blocks until an orderbook, an inventory, and an open-orders
// snapshot have all been observed at least once, buffering any executions
// seen along the way. It mirrors the original bot's warmup barrier, built
// here as a select loop the same shape as the teacher's manageMarkets.
func Warmup(ctx context.Context, info domain.MarketInfo, src Sources) (*Observation, error) {
	var executions []domain.Execution
	var ob *domain.Orderbook
	var inv *domain.Inventory
	var oo *domain.OpenOrders

	for ob == nil || inv == nil || oo == nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case e, ok := <-src.Execution:
			if !ok {
				return nil, fmt.Errorf("observation: execution source closed during warmup")
			}
			executions = append(executions, e)
		case b, ok := <-src.Orderbook:
			if !ok {
				return nil, fmt.Errorf("observation: orderbook source closed during warmup")
			}
			ob = &b
		case i, ok := <-src.Inventory:
			if !ok {
				return nil, fmt.Errorf("observation: inventory source closed during warmup")
			}
			inv = &i
		case o, ok := <-src.OpenOrders:
			if !ok {
				return nil, fmt.Errorf("observation: open_orders source closed during warmup")
			}
			oo = &o
		}
	}

	return New(info, executions, *ob, *inv, *oo, nil), nil
}
