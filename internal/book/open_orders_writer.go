package book

import (
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

// OpenOrdersOpKind discriminates the operations the open-orders writer
// applies.
type OpenOrdersOpKind int

const (
	OpenOrdersSnapshot OpenOrdersOpKind = iota
	OpenOrdersCreate
	OpenOrdersUpdate
	OpenOrdersDelete
	OpenOrdersExecution
)

// OpenOrdersOp is one incremental change to apply to an OpenOrders set.
type OpenOrdersOp struct {
	Kind      OpenOrdersOpKind
	Timestamp int64

	// Snapshot
	Orders []domain.OrderState

	// Create / Update / Delete / Execution
	ID     domain.OrderId
	Side   *domain.Side // nil on Update means "unchanged"
	Price  *quant.Price
	Amount *quant.Amount

	// Execution
	ExecutedAmount quant.Amount
}

func SnapshotOpenOrdersOp(timestamp int64, orders []domain.OrderState) OpenOrdersOp {
	return OpenOrdersOp{Kind: OpenOrdersSnapshot, Timestamp: timestamp, Orders: orders}
}

func CreateOpenOrdersOp(timestamp int64, id domain.OrderId, side domain.Side, price, amount quant.Amount) OpenOrdersOp {
	return OpenOrdersOp{Kind: OpenOrdersCreate, Timestamp: timestamp, ID: id, Side: &side, Price: &price, Amount: &amount}
}

func UpdateOpenOrdersOp(timestamp int64, id domain.OrderId, side *domain.Side, price, amount *quant.Amount) OpenOrdersOp {
	return OpenOrdersOp{Kind: OpenOrdersUpdate, Timestamp: timestamp, ID: id, Side: side, Price: price, Amount: amount}
}

func DeleteOpenOrdersOp(timestamp int64, id domain.OrderId) OpenOrdersOp {
	return OpenOrdersOp{Kind: OpenOrdersDelete, Timestamp: timestamp, ID: id}
}

func ExecutionOpenOrdersOp(timestamp int64, id domain.OrderId, executedAmount quant.Amount) OpenOrdersOp {
	return OpenOrdersOp{Kind: OpenOrdersExecution, Timestamp: timestamp, ID: id, ExecutedAmount: executedAmount}
}

// OpenOrdersWriter applies ops to an OpenOrders set in place.
type OpenOrdersWriter struct {
	orders *domain.OpenOrders
}

func NewOpenOrdersWriter(orders *domain.OpenOrders) *OpenOrdersWriter {
	return &OpenOrdersWriter{orders: orders}
}

func (w *OpenOrdersWriter) Apply(op OpenOrdersOp) error {
	switch op.Kind {
	case OpenOrdersSnapshot:
		return w.applySnapshot(op)
	case OpenOrdersCreate:
		return w.applyCreate(op)
	case OpenOrdersUpdate:
		return w.applyUpdate(op)
	case OpenOrdersDelete:
		return w.applyDelete(op)
	case OpenOrdersExecution:
		return w.applyExecution(op)
	default:
		return nil
	}
}

func (w *OpenOrdersWriter) applySnapshot(op OpenOrdersOp) error {
	w.orders.Timestamp = op.Timestamp
	w.orders.Orders = append([]domain.OrderState(nil), op.Orders...)
	return nil
}

// applyCreate, unlike the order-book writer, rejects a duplicate OrderId —
// original_source's open_orders_writer.rs checks existence before inserting
// while the order-book writer never does (see DESIGN.md for why the two
// writers differ here).
func (w *OpenOrdersWriter) applyCreate(op OpenOrdersOp) error {
	if w.indexOf(op.ID) >= 0 {
		return ErrOrderAlreadyExists
	}
	w.orders.Orders = append(w.orders.Orders, domain.NewOrderState(op.ID, *op.Side, *op.Price, *op.Amount))
	w.orders.Timestamp = op.Timestamp
	return nil
}

func (w *OpenOrdersWriter) applyUpdate(op OpenOrdersOp) error {
	idx := w.indexOf(op.ID)
	if idx < 0 {
		return ErrOrderNotFound
	}

	current := w.orders.Orders[idx]
	if op.Side != nil {
		current.Side = *op.Side
	}
	if op.Price != nil {
		current.Price = *op.Price
	}
	if op.Amount != nil {
		current.Amount = *op.Amount
	}
	w.orders.Orders[idx] = current
	w.orders.Timestamp = op.Timestamp
	return nil
}

func (w *OpenOrdersWriter) applyDelete(op OpenOrdersOp) error {
	idx := w.indexOf(op.ID)
	if idx < 0 {
		return ErrOrderNotFound
	}
	w.orders.Orders = append(w.orders.Orders[:idx], w.orders.Orders[idx+1:]...)
	w.orders.Timestamp = op.Timestamp
	return nil
}

// applyExecution reduces the order's remaining amount by the executed
// amount, removing the order once it reaches zero. It refuses to mutate at
// all when the executed amount exceeds what remains — a short fill report
// racing a cancel is a broker-protocol bug, not something to silently clamp.
func (w *OpenOrdersWriter) applyExecution(op OpenOrdersOp) error {
	idx := w.indexOf(op.ID)
	if idx < 0 {
		return ErrOrderNotFound
	}

	current := w.orders.Orders[idx]
	if current.Amount.LessThan(op.ExecutedAmount) {
		return ErrInsufficientAmount
	}

	remaining := current.Amount.Sub(op.ExecutedAmount)
	if remaining.IsZero() {
		w.orders.Orders = append(w.orders.Orders[:idx], w.orders.Orders[idx+1:]...)
	} else {
		current.Amount = remaining
		w.orders.Orders[idx] = current
	}
	w.orders.Timestamp = op.Timestamp
	return nil
}

func (w *OpenOrdersWriter) indexOf(id domain.OrderId) int {
	for i, o := range w.orders.Orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
