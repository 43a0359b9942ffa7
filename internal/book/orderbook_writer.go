package book

import (
	"github.com/0xquote/marketmaker/pkg/domain"
	"github.com/0xquote/marketmaker/pkg/quant"
)

// OrderbookOpKind discriminates the operations the order-book writer applies.
type OrderbookOpKind int

const (
	OrderbookSnapshot OrderbookOpKind = iota
	OrderbookCreate
	OrderbookUpdate
	OrderbookDelete
)

// OrderbookOp is one incremental change to apply to an Orderbook. Only the
// fields relevant to Kind are populated, mirroring the per-op structs the
// original writer keeps distinct (CreateOp/UpdateOp/DeleteOp) collapsed into
// one Go struct with optional fields.
type OrderbookOp struct {
	Kind      OrderbookOpKind
	Timestamp int64

	// Snapshot
	Asks []domain.Offer
	Bids []domain.Offer

	// Create / Update / Delete
	ID     domain.OfferId
	Side   domain.Side
	Price  *quant.Price  // nil on Update means "unchanged"
	Amount *quant.Amount // nil on Update means "unchanged"
}

func SnapshotOrderbookOp(timestamp int64, asks, bids []domain.Offer) OrderbookOp {
	return OrderbookOp{Kind: OrderbookSnapshot, Timestamp: timestamp, Asks: asks, Bids: bids}
}

func CreateOrderbookOp(timestamp int64, id domain.OfferId, side domain.Side, price, amount quant.Amount) OrderbookOp {
	return OrderbookOp{Kind: OrderbookCreate, Timestamp: timestamp, ID: id, Side: side, Price: &price, Amount: &amount}
}

func UpdateOrderbookOp(timestamp int64, id domain.OfferId, side domain.Side, price, amount *quant.Amount) OrderbookOp {
	return OrderbookOp{Kind: OrderbookUpdate, Timestamp: timestamp, ID: id, Side: side, Price: price, Amount: amount}
}

func DeleteOrderbookOp(timestamp int64, id domain.OfferId, side domain.Side) OrderbookOp {
	return OrderbookOp{Kind: OrderbookDelete, Timestamp: timestamp, ID: id, Side: side}
}

// OrderbookWriter applies ops to an Orderbook in place, keeping asks sorted
// ascending by price and bids sorted descending by price.
type OrderbookWriter struct {
	book *domain.Orderbook
}

func NewOrderbookWriter(book *domain.Orderbook) *OrderbookWriter {
	return &OrderbookWriter{book: book}
}

// Apply dispatches an op to its handler. Create never rejects a duplicate
// OfferId — original_source's orderbook_writer.rs performs no existence
// check before inserting, an ambiguity spec.md leaves unspecified and this
// implementation resolves by following that source exactly (see DESIGN.md).
func (w *OrderbookWriter) Apply(op OrderbookOp) error {
	switch op.Kind {
	case OrderbookSnapshot:
		return w.applySnapshot(op)
	case OrderbookCreate:
		return w.applyCreate(op)
	case OrderbookUpdate:
		return w.applyUpdate(op)
	case OrderbookDelete:
		return w.applyDelete(op)
	default:
		return nil
	}
}

func (w *OrderbookWriter) applySnapshot(op OrderbookOp) error {
	w.book.Timestamp = op.Timestamp
	w.book.Asks = append([]domain.Offer(nil), op.Asks...)
	w.book.Bids = append([]domain.Offer(nil), op.Bids...)
	return nil
}

func (w *OrderbookWriter) applyCreate(op OrderbookOp) error {
	offer := domain.NewOffer(op.ID, *op.Price, *op.Amount)

	if op.Side.IsAsk() {
		idx := len(w.book.Asks)
		for i, existing := range w.book.Asks {
			if existing.Price.GreaterThan(offer.Price) {
				idx = i
				break
			}
		}
		w.book.Asks = insertOffer(w.book.Asks, idx, offer)
	} else {
		idx := len(w.book.Bids)
		for i, existing := range w.book.Bids {
			if existing.Price.LessThan(offer.Price) {
				idx = i
				break
			}
		}
		w.book.Bids = insertOffer(w.book.Bids, idx, offer)
	}

	w.book.Timestamp = op.Timestamp
	return nil
}

// applyUpdate removes the existing offer (by id and side) and re-inserts it
// with the patched fields via applyCreate, exactly as the original writer's
// apply_update delegates to apply_create so the level re-sorts.
func (w *OrderbookWriter) applyUpdate(op OrderbookOp) error {
	existing, found := w.findAndRemove(op.ID, op.Side)
	if !found {
		return ErrOfferNotFound
	}

	price := existing.Price
	if op.Price != nil {
		price = *op.Price
	}
	amount := existing.Amount
	if op.Amount != nil {
		amount = *op.Amount
	}

	return w.applyCreate(CreateOrderbookOp(op.Timestamp, op.ID, op.Side, price, amount))
}

func (w *OrderbookWriter) applyDelete(op OrderbookOp) error {
	_, found := w.findAndRemove(op.ID, op.Side)
	if !found {
		return ErrOfferNotFound
	}
	w.book.Timestamp = op.Timestamp
	return nil
}

func (w *OrderbookWriter) findAndRemove(id domain.OfferId, side domain.Side) (domain.Offer, bool) {
	levels := &w.book.Asks
	if side.IsBid() {
		levels = &w.book.Bids
	}

	for i, offer := range *levels {
		if offer.ID == id {
			removed := offer
			*levels = append((*levels)[:i], (*levels)[i+1:]...)
			return removed, true
		}
	}
	return domain.Offer{}, false
}

func insertOffer(levels []domain.Offer, idx int, offer domain.Offer) []domain.Offer {
	levels = append(levels, domain.Offer{})
	copy(levels[idx+1:], levels[idx:])
	levels[idx] = offer
	return levels
}
