package sentiment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

const (
	// ProviderStub emits deterministic synthetic mentions (useful for tests/offline work).
	ProviderStub = "stub"
)

// Feed represents a pluggable mention stream for one tracked keyword. Real social
// connectors are external collaborators; they only need to honor the same Run
// contract to slot into the pipeline.
type Feed struct {
	provider string
	keyword  string
	log      zerolog.Logger
	interval time.Duration
	scorer   Scorer
}

// Option configures Feed construction parameters.
type Option func(*Feed)

const defaultStubInterval = 400 * time.Millisecond

// WithInterval overrides the synthetic emission cadence of the stub provider.
func WithInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithScorer overrides the scorer used for the debug mention tap.
func WithScorer(s Scorer) Option {
	return func(f *Feed) {
		if s != nil {
			f.scorer = s
		}
	}
}

// NewFeed constructs a mention feed backed by the requested provider.
func NewFeed(provider, keyword string, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderStub
	}
	f := &Feed{
		provider: strings.ToLower(provider),
		keyword:  keyword,
		log:      log,
		interval: defaultStubInterval,
		scorer:   LexiconScore,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run pushes mentions onto the provided channel until the context is canceled.
func (f *Feed) Run(ctx context.Context, out chan<- signal.Mention) error {
	switch f.provider {
	default:
		return f.runStub(ctx, out)
	}
}

// stubPhrases cycles through a mix of moods so the stub stream produces a slope that
// actually moves.
var stubPhrases = []struct {
	text      string
	author    string
	followers int
}{
	{"to the moon, this rally is amazing", "hypetrain", 5200},
	{"strong buy, love this pump", "whalewatcher", 12400},
	{"holding through the dip", "steadyhands", 880},
	{"this looks weak, expecting a dump", "permabear", 3100},
	{"total scam, got rekt, sell it all", "angryexit", 640},
	{"bullish bullish bullish", "moonboi", 15800},
}

func (f *Feed) runStub(ctx context.Context, out chan<- signal.Mention) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			phrase := stubPhrases[i%len(stubPhrases)]
			i++
			m := signal.Mention{
				Text:      phrase.text + " " + f.keyword,
				Author:    phrase.author,
				Followers: phrase.followers,
				Ts:        ts,
			}
			select {
			case out <- m:
				metrics.MentionsTotal.Inc()
				f.log.Debug().
					Str("author", m.Author).
					Int("followers", m.Followers).
					Float64("magnitude", Magnitude(m, f.scorer)).
					Msg("mention")
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
