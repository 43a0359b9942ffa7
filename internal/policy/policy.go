// Package policy defines the quoting-strategy boundary and the depth-based
// offering policy the core decision loop drives by default.
package policy

import (
	"github.com/0xquote/marketmaker/internal/observation"
	"github.com/0xquote/marketmaker/pkg/domain"
)

// Policy turns an Observation into the set of order actions (new orders and
// cancellations) to submit this iteration. Implementations must be pure:
// given the same Observation they must return the same orders, so the
// decision loop can call them freely without side effects of its own.
type Policy interface {
	Evaluate(obs *observation.Observation) []domain.Order
}
