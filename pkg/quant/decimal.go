// Package quant supplies the exact fixed-point numeric types used throughout
// the bot. Prices and amounts are never represented as float64: every
// comparison, sum, and rounding decision the core makes must be exact, and
// binary floating point cannot guarantee that for money.
package quant

import "github.com/shopspring/decimal"

// Price is a market price, always compared and ordered exactly.
type Price = decimal.Decimal

// Amount is an order or position quantity, always compared and summed exactly.
type Amount = decimal.Decimal

// Zero is the additive identity, handy for accumulator initialization.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// NewFromFloat builds a Price/Amount from a float64 literal. Reserved for
// config parsing and test fixtures — never for a value that crossed a
// broker wire format, which must be parsed from its original string.
func NewFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// NewFromString parses a decimal string exactly, as returned by exchange
// REST and WebSocket payloads.
func NewFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
