package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

type noBooks struct{}

func (noBooks) Top() (signal.BookTop, bool) { return signal.BookTop{}, false }

type nopSink struct{}

func (nopSink) Submit(execution.Intent) error { return nil }

func newTestPipeline(cfg Config) *Pipeline {
	return New(cfg, noBooks{}, nopSink{}, nil, zerolog.Nop())
}

func TestRunStopsOnCancel(t *testing.T) {
	p := newTestPipeline(Config{ProductID: "BTC-USD", Keyword: "bitcoin"})

	ctx, cancel := context.WithCancel(context.Background())
	mentions := make(chan signal.Mention)
	ticks := make(chan signal.Tick)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, mentions, ticks) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunFailsWhenSentimentStreamCloses(t *testing.T) {
	p := newTestPipeline(Config{ProductID: "BTC-USD", Keyword: "bitcoin"})

	mentions := make(chan signal.Mention)
	ticks := make(chan signal.Tick)
	close(mentions)

	err := p.Run(context.Background(), mentions, ticks)
	if err == nil {
		t.Fatal("Run returned nil after stream close")
	}
	if !strings.Contains(err.Error(), "bitcoin") {
		t.Fatalf("error %q does not name the keyword", err)
	}
}

func TestRunFailsWhenTradeStreamCloses(t *testing.T) {
	p := newTestPipeline(Config{ProductID: "BTC-USD", Keyword: "bitcoin"})

	mentions := make(chan signal.Mention)
	ticks := make(chan signal.Tick)
	close(ticks)

	err := p.Run(context.Background(), mentions, ticks)
	if err == nil {
		t.Fatal("Run returned nil after stream close")
	}
	if !strings.Contains(err.Error(), "BTC-USD") {
		t.Fatalf("error %q does not name the product", err)
	}
}

func TestRunReducesWindowsFromStreams(t *testing.T) {
	p := newTestPipeline(Config{
		ProductID:      "BTC-USD",
		Keyword:        "bitcoin",
		WindowPeriod:   10 * time.Millisecond,
		DecisionPeriod: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mentions := make(chan signal.Mention, 16)
	ticks := make(chan signal.Tick, 16)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, mentions, ticks) }()

	mentions <- signal.Mention{Text: "great", Followers: 100, Ts: time.Now()}
	ticks <- signal.Tick{Price: 30000, Ts: time.Now()}

	deadline := time.Now().Add(2 * time.Second)
	for p.Accumulator().PriceSeries().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no price window reduced within deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done

	if got := p.Accumulator().SentimentSeries().Len(); got == 0 {
		t.Fatal("no sentiment windows reduced")
	}
	got, ok := p.Accumulator().PriceSeries().Last()
	if !ok || got != 30000 {
		t.Fatalf("price window mean = %v, %v, want 30000", got, ok)
	}
}
