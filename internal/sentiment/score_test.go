package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

func TestLexiconScore(t *testing.T) {
	cases := map[string]float64{
		"to the moon, this rally is amazing": 0.9,
		"total scam, got rekt":               -0.8,
		"the weather is grey today":          0,
		"":                                   0,
		"BULLISH #bitcoin!":                  0.3,
	}
	for text, expected := range cases {
		if got := LexiconScore(text); math.Abs(got-expected) > 1e-9 {
			t.Fatalf("score(%q) = %f, expected %f", text, got, expected)
		}
	}
}

func TestMagnitudeWeightsByFollowers(t *testing.T) {
	m := signal.Mention{Text: "love this pump", Followers: 1000, Ts: time.Now()}
	got := Magnitude(m, LexiconScore)
	if math.Abs(got-500) > 1e-9 {
		t.Fatalf("expected magnitude 500, got %f", got)
	}

	m.Followers = 0
	if Magnitude(m, LexiconScore) != 0 {
		t.Fatalf("expected zero magnitude without followers")
	}
}
