// Package book implements the two incremental state writers the market and
// status sessions feed: the public order-book writer and the open-orders
// writer. Both mutate a snapshot in place from a stream of typed ops
// (Snapshot/Create/Update/Delete[/Execution]) the way the teacher's
// exchange/client.go wraps every REST error in a typed sentinel — writer
// failures here are likewise a small checked error set rather than bare
// strings, so callers can branch with errors.Is.
package book

import "errors"

var (
	// ErrOfferAlreadyExists is reserved for writers that choose to reject a
	// duplicate-id Create; the order-book writer never returns it (see
	// OrderbookWriter.Apply), but the value exists so callers compile against a
	// uniform error surface if that policy ever changes.
	ErrOfferAlreadyExists = errors.New("book: offer already exists")
	ErrOfferNotFound      = errors.New("book: offer not found")

	ErrOrderAlreadyExists  = errors.New("book: order already exists")
	ErrOrderNotFound       = errors.New("book: order not found")
	ErrInsufficientAmount  = errors.New("book: execution amount exceeds order amount")
)
