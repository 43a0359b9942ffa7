package domain

import "github.com/0xquote/marketmaker/pkg/quant"

// MarketInfo is the static trading-rule metadata for a single market: order
// size/price bounds and the tick size orders must be rounded to.
type MarketInfo struct {
	MaxOrderSize  quant.Amount
	MinOrderSize  quant.Amount
	LotSize       quant.Amount
	MaxOrderPrice quant.Price
	MinOrderPrice quant.Price
	TickSize      quant.Price
}
