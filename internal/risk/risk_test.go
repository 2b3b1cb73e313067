package risk

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAllow(t *testing.T) {
	limits := Limits{MaxNotionalPerTrade: decimal.NewFromInt(50)}
	if !limits.Allow(decimal.NewFromFloat(4.99), decimal.NewFromInt(10)) {
		t.Fatalf("expected notional under limit to pass")
	}
	if limits.Allow(decimal.NewFromFloat(5.01), decimal.NewFromInt(10)) {
		t.Fatalf("expected notional above limit to fail")
	}
}

func TestAllowUnlimited(t *testing.T) {
	var limits Limits
	if !limits.Allow(decimal.NewFromInt(1_000_000), decimal.NewFromInt(10)) {
		t.Fatalf("expected zero limit to disable the check")
	}
}
