// Package execution handles order intent submission toward trading venues.
package execution

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
)

// Side enumerates order directions used by the decision engine.
type Side string

const (
	// Buy opens or extends a long position.
	Buy Side = "BUY"
	// Sell opens or extends a short position.
	Sell Side = "SELL"
)

// Intent is an immutable proposed trade handed to an order sink. It is not a
// confirmed execution; the core never awaits fills.
type Intent struct {
	ProductID string          `json:"product_id"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Size      decimal.Decimal `json:"size"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// Fill records an executed (or simulated) trade derived from an intent.
type Fill struct {
	ProductID string          `json:"product_id"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Size      decimal.Decimal `json:"size"`
	Ts        time.Time       `json:"ts"`
}

// Sink accepts order intents. Submission effects, confirmation, and retry policy all
// belong to the implementation; the core does not retry.
type Sink interface {
	Submit(Intent) error
}

// Executor is a logger-backed sink: intents are journaled, never routed to the
// venue. Swap in a venue-backed Sink to trade for real.
type Executor struct{ log zerolog.Logger }

// NewExecutor wraps a zerolog logger for intent submissions.
func NewExecutor(log zerolog.Logger) *Executor { return &Executor{log: log} }

// Submit logs the intent and bumps the order counter.
func (e *Executor) Submit(in Intent) error {
	metrics.OrdersTotal.WithLabelValues(string(in.Side)).Inc()
	e.log.Info().
		Str("product", in.ProductID).
		Str("side", string(in.Side)).
		Str("px", in.Price.String()).
		Str("size", in.Size.String()).
		Msg("submit order")
	return nil
}
