// Package risk encodes guard-rails applied between the decision engine and the sink.
package risk

import "github.com/shopspring/decimal"

// Limits caps how much notional a single order intent may carry. A zero max
// disables the check.
type Limits struct {
	MaxNotionalPerTrade decimal.Decimal
}

// Allow reports whether an order of the given price and size fits the limits.
func (l Limits) Allow(price, size decimal.Decimal) bool {
	if l.MaxNotionalPerTrade.IsZero() {
		return true
	}
	return price.Mul(size).LessThanOrEqual(l.MaxNotionalPerTrade)
}
