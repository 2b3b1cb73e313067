package indicator

import (
	"sync"

	"github.com/0xm1kr/cbp-twitter-bot/internal/window"
)

// Snapshot bundles the latest indicator values the decision loop consumes.
type Snapshot struct {
	SentimentSMA   float64
	SentimentSlope float64
	EMAFast        float64
	EMASlow        float64
	EMAFastSlope   float64
	EMASlowSlope   float64
}

// Engine updates the momentum indicators once per window boundary and publishes
// snapshots under a single-writer/multi-reader lock. The window reducer is the only
// writer; the decision loop reads on its own timer.
type Engine struct {
	mu      sync.RWMutex
	sentSMA *SMA
	emaFast *EMA
	emaSlow *EMA
	horizon int
}

// NewEngine wires an indicator engine with the configured sentiment SMA window,
// fast/slow EMA spans, and slope horizon.
func NewEngine(smaWindow, fastSpan, slowSpan, horizon int) *Engine {
	if horizon < 1 {
		horizon = 1
	}
	return &Engine{
		sentSMA: NewSMA(smaWindow),
		emaFast: NewEMA(fastSpan),
		emaSlow: NewEMA(slowSpan),
		horizon: horizon,
	}
}

// OnBoundary folds one reduced window into the indicator state. Sentiment updates on
// every boundary; the EMAs only advance when the window actually saw trades, so a
// price gap never skews the fast/slow alignment.
func (e *Engine) OnBoundary(b window.Boundary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sentSMA.Update(b.Sentiment)
	if b.PriceFilled {
		e.emaFast.Update(b.Price)
		e.emaSlow.Update(b.Price)
	}
}

// Snapshot returns the latest indicator values. It reports false until the sentiment
// SMA and both EMAs each have enough points for a slope over the configured horizon;
// callers must treat that as "skip this tick", not as an error.
func (e *Engine) Snapshot() (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var snap Snapshot
	var ok bool
	if snap.SentimentSMA, ok = e.sentSMA.Last(); !ok {
		return Snapshot{}, false
	}
	if snap.SentimentSlope, ok = e.sentSMA.Slope(e.horizon); !ok {
		return Snapshot{}, false
	}
	if snap.EMAFast, ok = e.emaFast.Last(); !ok {
		return Snapshot{}, false
	}
	if snap.EMAFastSlope, ok = e.emaFast.Slope(e.horizon); !ok {
		return Snapshot{}, false
	}
	if snap.EMASlow, ok = e.emaSlow.Last(); !ok {
		return Snapshot{}, false
	}
	if snap.EMASlowSlope, ok = e.emaSlow.Slope(e.horizon); !ok {
		return Snapshot{}, false
	}
	return snap, true
}
