// Package decision evaluates momentum indicators against the live book and holds the
// position state machine that emits order intents.
package decision

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
	"github.com/0xm1kr/cbp-twitter-bot/internal/indicator"
	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/risk"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

// State enumerates the engine's exposure. At most one side is ever open.
type State int

const (
	// Flat holds no exposure.
	Flat State = iota
	// Long holds an open buy entry.
	Long
	// Short holds an open sell entry.
	Short
)

// String names the state for logs.
func (s State) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// Position is the engine's current exposure. Entry is the quoted price at the moment
// the intent was emitted, not a confirmed fill price.
type Position struct {
	State     State
	Entry     decimal.Decimal
	EnteredAt time.Time
}

// Indicators supplies the latest momentum snapshot, reporting false while warming up.
type Indicators interface {
	Snapshot() (indicator.Snapshot, bool)
}

// Books supplies the current best bid/ask, reporting false before the first quote.
type Books interface {
	Top() (signal.BookTop, bool)
}

// Config carries the decision engine's tunables.
type Config struct {
	ProductID string
	// OrderSize is the fixed size of every emitted intent.
	OrderSize decimal.Decimal
	// ThresholdPos gates long entries: the sentiment slope must exceed it.
	ThresholdPos float64
	// ThresholdNeg gates short entries: the sentiment slope must fall below it.
	// Note it is a positive number; shorts fire on slope < +100 by default, not
	// on slope < -100.
	ThresholdNeg float64
	Limits       risk.Limits
}

// Engine is the position state machine. Evaluate runs on its own control tick,
// independent of the window cadence, and emits at most one intent per tick.
type Engine struct {
	cfg        config
	indicators Indicators
	books      Books
	sink       execution.Sink
	log        zerolog.Logger

	position Position
}

type config struct {
	productID    string
	size         decimal.Decimal
	thresholdPos float64
	thresholdNeg float64
	limits       risk.Limits
}

// NewEngine builds a flat engine over the supplied collaborators.
func NewEngine(cfg Config, ind Indicators, books Books, sink execution.Sink, log zerolog.Logger) *Engine {
	thresholdPos := cfg.ThresholdPos
	if thresholdPos == 0 {
		thresholdPos = 100
	}
	thresholdNeg := cfg.ThresholdNeg
	if thresholdNeg == 0 {
		thresholdNeg = 100
	}
	size := cfg.OrderSize
	if size.IsZero() {
		size = decimal.NewFromInt(10)
	}
	return &Engine{
		cfg: config{
			productID:    cfg.ProductID,
			size:         size,
			thresholdPos: thresholdPos,
			thresholdNeg: thresholdNeg,
			limits:       cfg.Limits,
		},
		indicators: ind,
		books:      books,
		sink:       sink,
		log:        log,
		position:   Position{State: Flat},
	}
}

// Position returns the current exposure.
func (e *Engine) Position() Position { return e.position }

// Evaluate runs one control tick: it reads the latest indicator snapshot and book top,
// applies the entry rules, and submits at most one intent. It returns the emitted
// intent, or nil when the tick was a no-op. A sink failure is surfaced in the logs and
// counters but the position transition is not rolled back.
func (e *Engine) Evaluate(now time.Time) *execution.Intent {
	snap, ok := e.indicators.Snapshot()
	if !ok {
		metrics.DecisionsTotal.WithLabelValues("warming_up").Inc()
		return nil
	}
	top, ok := e.books.Top()
	if !ok {
		metrics.DecisionsTotal.WithLabelValues("no_book").Inc()
		return nil
	}

	e.log.Debug().
		Str("best_ask", top.AskPrice.String()).
		Str("best_bid", top.BidPrice.String()).
		Float64("sentiment_slope", snap.SentimentSlope).
		Float64("ema_fast", snap.EMAFast).
		Float64("ema_fast_slope", snap.EMAFastSlope).
		Float64("ema_slow", snap.EMASlow).
		Float64("ema_slow_slope", snap.EMASlowSlope).
		Str("position", e.position.State.String()).
		Msg("evaluating")

	if intent := e.tryShort(snap, top, now); intent != nil {
		return intent
	}
	if intent := e.tryLong(snap, top, now); intent != nil {
		return intent
	}
	metrics.DecisionsTotal.WithLabelValues("hold").Inc()
	return nil
}

// tryShort fires when the sentiment slope sits below the short threshold (a positive
// value by default), the fast EMA sits below the slow EMA,
// both EMAs point down, and selling would not lock in a loss against an open long.
func (e *Engine) tryShort(snap indicator.Snapshot, top signal.BookTop, now time.Time) *execution.Intent {
	if e.position.State == Short {
		return nil
	}
	if snap.SentimentSlope >= e.cfg.thresholdNeg {
		return nil
	}
	if snap.EMAFast >= snap.EMASlow || snap.EMAFastSlope >= 0 || snap.EMASlowSlope >= 0 {
		return nil
	}
	// Only sell above an open long's entry.
	if e.position.State == Long && !e.position.Entry.LessThan(top.AskPrice) {
		metrics.DecisionsTotal.WithLabelValues("short_blocked").Inc()
		return nil
	}
	return e.fire(execution.Sell, Short, top.AskPrice, now)
}

// tryLong mirrors tryShort: positive sentiment trend, fast EMA above slow, both EMAs
// pointing up, and buying back only below an open short's entry.
func (e *Engine) tryLong(snap indicator.Snapshot, top signal.BookTop, now time.Time) *execution.Intent {
	if e.position.State == Long {
		return nil
	}
	if snap.SentimentSlope <= e.cfg.thresholdPos {
		return nil
	}
	if snap.EMAFast <= snap.EMASlow || snap.EMAFastSlope <= 0 || snap.EMASlowSlope <= 0 {
		return nil
	}
	// Only buy below an open short's entry.
	if e.position.State == Short && !e.position.Entry.GreaterThan(top.BidPrice) {
		metrics.DecisionsTotal.WithLabelValues("long_blocked").Inc()
		return nil
	}
	return e.fire(execution.Buy, Long, top.BidPrice, now)
}

func (e *Engine) fire(side execution.Side, next State, price decimal.Decimal, now time.Time) *execution.Intent {
	if !e.cfg.limits.Allow(price, e.cfg.size) {
		metrics.DecisionsTotal.WithLabelValues("risk_rejected").Inc()
		e.log.Warn().
			Str("side", string(side)).
			Str("px", price.String()).
			Str("size", e.cfg.size.String()).
			Msg("intent rejected by risk limits")
		return nil
	}

	intent := execution.Intent{
		ProductID: e.cfg.productID,
		Side:      side,
		Price:     price,
		Size:      e.cfg.size,
		EmittedAt: now,
	}
	e.position = Position{State: next, Entry: price, EnteredAt: now}
	metrics.DecisionsTotal.WithLabelValues(next.String() + "_entry").Inc()

	if err := e.sink.Submit(intent); err != nil {
		// The position is not rolled back on a sink failure. Retry policy
		// belongs to the sink.
		metrics.DecisionsTotal.WithLabelValues("sink_error").Inc()
		e.log.Error().Err(err).Str("side", string(side)).Msg("order sink failed")
	}
	return &intent
}
