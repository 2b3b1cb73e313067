// Package exchange hosts market-data connectors for the traded product.
package exchange

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

const (
	// ProviderStub emits deterministic synthetic ticks (useful for tests/offline work).
	ProviderStub = "stub"
	// ProviderCoinbase streams live ticker trades from the Coinbase Exchange websocket.
	ProviderCoinbase = "coinbase"
)

// Feed represents a pluggable trade stream for a single product. Besides pushing
// ticks it keeps the most recent best bid/ask, satisfying the pull-style book
// interface the decision engine reads.
type Feed struct {
	provider  string
	productID string
	log       zerolog.Logger
	wsURL     string

	mu      sync.RWMutex
	top     signal.BookTop
	haveTop bool
}

// Option configures Feed construction parameters.
type Option func(*Feed)

const defaultCoinbaseWSURL = "wss://ws-feed.exchange.coinbase.com"

// WithWSURL overrides the websocket endpoint (tests point this at a local server).
func WithWSURL(url string) Option {
	return func(f *Feed) {
		if url != "" {
			f.wsURL = url
		}
	}
}

// NewFeed constructs a feed backed by the requested provider.
func NewFeed(provider, productID string, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderStub
	}
	f := &Feed{
		provider:  strings.ToLower(provider),
		productID: productID,
		log:       log,
		wsURL:     defaultCoinbaseWSURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ProductID returns the product this feed tracks.
func (f *Feed) ProductID() string { return f.productID }

// Top returns the latest best bid/ask snapshot, reporting false before any quote.
func (f *Feed) Top() (signal.BookTop, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.top, f.haveTop
}

func (f *Feed) setTop(top signal.BookTop) {
	f.mu.Lock()
	f.top = top
	f.haveTop = true
	f.mu.Unlock()
}

// Run pushes ticks onto the provided channel until the context is canceled.
func (f *Feed) Run(ctx context.Context, out chan<- signal.Tick) error {
	switch f.provider {
	case ProviderCoinbase:
		return f.runCoinbase(ctx, out)
	default:
		return f.runStub(ctx, out)
	}
}

func (f *Feed) runStub(ctx context.Context, out chan<- signal.Tick) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var px float64 = 100.0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			px += 0.1
			f.setTop(stubTop(px, ts))
			tick := signal.Tick{Price: px, Size: 1, Ts: ts}
			select {
			case out <- tick:
				metrics.TicksTotal.Inc()
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// stubTop fabricates a narrow synthetic book around the stub price.
func stubTop(px float64, ts time.Time) signal.BookTop {
	mid := decimal.NewFromFloat(px)
	spread := decimal.NewFromFloat(0.05)
	return signal.BookTop{
		BidPrice: mid.Sub(spread),
		BidSize:  decimal.NewFromInt(5),
		AskPrice: mid.Add(spread),
		AskSize:  decimal.NewFromInt(5),
		Ts:       ts,
	}
}
