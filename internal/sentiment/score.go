// Package sentiment scores mention text and adapts mention streams for the pipeline.
package sentiment

import (
	"strings"

	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

// Scorer turns mention text into a sentiment score, roughly in [-1, 1] for ordinary
// text. Implementations are pluggable; the default divides a word-list tally by 10.
type Scorer func(text string) float64

// Magnitude weights a mention's score by the author's reach. This is the scalar the
// window accumulator buffers.
func Magnitude(m signal.Mention, score Scorer) float64 {
	return score(m.Text) * float64(m.Followers)
}

// lexicon maps sentiment-bearing words to AFINN-style valence scores in [-5, 5].
var lexicon = map[string]int{
	"amazing":  4,
	"awesome":  4,
	"bad":      -3,
	"bear":     -2,
	"bearish":  -3,
	"best":     3,
	"bull":     2,
	"bullish":  3,
	"buy":      2,
	"crash":    -4,
	"dip":      -1,
	"dump":     -3,
	"fear":     -2,
	"gain":     2,
	"good":     3,
	"great":    3,
	"happy":    3,
	"hate":     -3,
	"hodl":     2,
	"loss":     -3,
	"love":     3,
	"moon":     3,
	"panic":    -3,
	"profit":   2,
	"pump":     2,
	"rally":    2,
	"rekt":     -4,
	"rise":     2,
	"sad":      -2,
	"scam":     -4,
	"sell":     -2,
	"short":    -1,
	"strong":   2,
	"terrible": -3,
	"weak":     -2,
	"win":      4,
	"worst":    -3,
}

// LexiconScore is the default Scorer: it sums the valence of known words and divides
// by 10. Unknown words contribute nothing.
func LexiconScore(text string) float64 {
	total := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?#@$:;\"'()")
		if v, ok := lexicon[word]; ok {
			total += v
		}
	}
	return float64(total) / 10
}
