// Package pipeline wires the stream adapters, window accumulator, indicator engine,
// and decision loop into one run loop.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/decision"
	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
	"github.com/0xm1kr/cbp-twitter-bot/internal/indicator"
	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/risk"
	"github.com/0xm1kr/cbp-twitter-bot/internal/sentiment"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
	"github.com/0xm1kr/cbp-twitter-bot/internal/window"
)

// Config carries every pipeline tunable. Zero values fall back to the demo
// cadence (10s windows, 6-window SMA, 12/26 EMA, 5s decision tick).
type Config struct {
	ProductID        string
	Keyword          string
	WindowPeriod     time.Duration
	WindowCount      int
	FastSpan         int
	SlowSpan         int
	SlopeHorizon     int
	DecisionPeriod   time.Duration
	OrderSize        decimal.Decimal
	ThresholdPos     float64
	ThresholdNeg     float64
	RetentionWindows int
	Limits           risk.Limits
}

func (c *Config) applyDefaults() {
	if c.WindowPeriod <= 0 {
		c.WindowPeriod = 10 * time.Second
	}
	if c.WindowCount <= 0 {
		c.WindowCount = 6
	}
	if c.FastSpan <= 0 {
		c.FastSpan = 12
	}
	if c.SlowSpan <= 0 {
		c.SlowSpan = 26
	}
	if c.SlopeHorizon <= 0 {
		c.SlopeHorizon = 3
	}
	if c.DecisionPeriod <= 0 {
		c.DecisionPeriod = 5 * time.Second
	}
}

// Pipeline owns the window accumulator, the indicator engine, and the decision
// engine, and pumps them from the two inbound streams on independent timers.
type Pipeline struct {
	cfg    Config
	log    zerolog.Logger
	scorer sentiment.Scorer

	acc *window.Accumulator
	ind *indicator.Engine
	dec *decision.Engine
}

// New wires a pipeline over the book source and order sink collaborators.
func New(cfg Config, books decision.Books, sink execution.Sink, scorer sentiment.Scorer, log zerolog.Logger) *Pipeline {
	cfg.applyDefaults()
	if scorer == nil {
		scorer = sentiment.LexiconScore
	}

	acc := window.NewAccumulator(cfg.RetentionWindows)
	ind := indicator.NewEngine(cfg.WindowCount, cfg.FastSpan, cfg.SlowSpan, cfg.SlopeHorizon)
	dec := decision.NewEngine(decision.Config{
		ProductID:    cfg.ProductID,
		OrderSize:    cfg.OrderSize,
		ThresholdPos: cfg.ThresholdPos,
		ThresholdNeg: cfg.ThresholdNeg,
		Limits:       cfg.Limits,
	}, ind, books, sink, log)

	return &Pipeline{
		cfg:    cfg,
		log:    log,
		scorer: scorer,
		acc:    acc,
		ind:    ind,
		dec:    dec,
	}
}

// Accumulator exposes the window series for inspection.
func (p *Pipeline) Accumulator() *window.Accumulator { return p.acc }

// Decision exposes the decision engine for inspection.
func (p *Pipeline) Decision() *decision.Engine { return p.dec }

// Run consumes both streams until the context is canceled or a stream terminates.
// A terminated stream is a fatal source failure for the run; the caller owns any
// reconnect policy. Cancellation stops both timers and returns the context error.
func (p *Pipeline) Run(ctx context.Context, mentions <-chan signal.Mention, ticks <-chan signal.Tick) error {
	windowTicker := time.NewTicker(p.cfg.WindowPeriod)
	defer windowTicker.Stop()
	decisionTicker := time.NewTicker(p.cfg.DecisionPeriod)
	defer decisionTicker.Stop()

	p.log.Info().
		Str("product", p.cfg.ProductID).
		Str("keyword", p.cfg.Keyword).
		Dur("window_period", p.cfg.WindowPeriod).
		Dur("decision_period", p.cfg.DecisionPeriod).
		Msg("pipeline started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case m, ok := <-mentions:
			if !ok {
				return fmt.Errorf("sentiment stream for %q terminated", p.cfg.Keyword)
			}
			p.acc.RecordSentiment(sentiment.Magnitude(m, p.scorer))

		case tk, ok := <-ticks:
			if !ok {
				return fmt.Errorf("trade stream for %q terminated", p.cfg.ProductID)
			}
			p.acc.RecordPrice(tk.Price)

		case <-windowTicker.C:
			b := p.acc.Reduce()
			p.ind.OnBoundary(b)
			metrics.WindowsTotal.WithLabelValues("sentiment").Inc()
			if b.PriceFilled {
				metrics.WindowsTotal.WithLabelValues("price").Inc()
			}
			p.log.Debug().
				Float64("sentiment", b.Sentiment).
				Float64("price", b.Price).
				Bool("price_filled", b.PriceFilled).
				Int("windows", p.acc.SentimentSeries().Len()).
				Msg("window reduced")

		case <-decisionTicker.C:
			p.dec.Evaluate(time.Now())
		}
	}
}
