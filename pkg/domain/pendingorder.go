package domain

// PendingId identifies an order submission awaiting a broker reply.
type PendingId string

// PendingOrder is an order the order service has sent to the broker but has
// not yet received a reply for — it is still "in flight".
type PendingOrder struct {
	Timestamp int64 // unix millis, submission time
	ID        PendingId
	Order     Order
}

func NewPendingOrder(timestamp int64, id PendingId, order Order) PendingOrder {
	return PendingOrder{Timestamp: timestamp, ID: id, Order: order}
}
