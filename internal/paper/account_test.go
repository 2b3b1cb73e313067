package paper

import (
	"math"
	"testing"

	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
)

func TestMarketFillBuySellPnL(t *testing.T) {
	account := NewAccount(1000, 1)

	if err := account.MarketFill("BTC-USD", execution.Buy, 0.5, 1000); err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}
	if err := account.MarketFill("BTC-USD", execution.Buy, 0.25, 1100); err != nil {
		t.Fatalf("unexpected second buy error: %v", err)
	}

	snap := account.Snapshot(map[string]float64{"BTC-USD": 1150})
	pos := snap.Positions["BTC-USD"]
	if pos.Qty < 0.74 || pos.Qty > 0.76 {
		t.Fatalf("expected qty ~0.75, got %.4f", pos.Qty)
	}
	if pos.AvgCost <= 0 {
		t.Fatalf("avg cost not tracked")
	}

	if err := account.MarketFill("BTC-USD", execution.Sell, 0.25, 1200); err != nil {
		t.Fatalf("unexpected sell error: %v", err)
	}
	realized := account.RealizedPnL()
	if realized <= 0 {
		t.Fatalf("expected positive realized pnl got %.2f", realized)
	}

	snap = account.Snapshot(map[string]float64{"BTC-USD": 1180})
	if math.Abs(snap.Cash+snap.Positions["BTC-USD"].MarketValue-snap.Equity) > 1e-6 {
		t.Fatalf("equity did not balance")
	}
}

func TestMarketFillOpensShort(t *testing.T) {
	account := NewAccount(1000, 10)

	if err := account.MarketFill("BTC-USD", execution.Sell, 2, 100); err != nil {
		t.Fatalf("unexpected short error: %v", err)
	}
	if got := account.Position("BTC-USD"); got != -2 {
		t.Fatalf("expected signed position -2, got %.4f", got)
	}
	// Short sale proceeds raise cash.
	if account.AvailableCash() != 1200 {
		t.Fatalf("expected cash 1200 after proceeds, got %.2f", account.AvailableCash())
	}

	// Covering below entry realizes a gain.
	if err := account.MarketFill("BTC-USD", execution.Buy, 2, 90); err != nil {
		t.Fatalf("unexpected cover error: %v", err)
	}
	if math.Abs(account.RealizedPnL()-20) > 1e-9 {
		t.Fatalf("expected realized pnl 20, got %.2f", account.RealizedPnL())
	}
	if account.Position("BTC-USD") != 0 {
		t.Fatalf("expected flat position after cover")
	}
}

func TestMarketFillFlipThroughZero(t *testing.T) {
	account := NewAccount(10000, 10)

	if err := account.MarketFill("BTC-USD", execution.Buy, 1, 100); err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}
	if err := account.MarketFill("BTC-USD", execution.Sell, 3, 110); err != nil {
		t.Fatalf("unexpected flip error: %v", err)
	}
	if got := account.Position("BTC-USD"); got != -2 {
		t.Fatalf("expected flipped position -2, got %.4f", got)
	}
	// Only the closed long leg realizes PnL; the short remainder opens at 110.
	if math.Abs(account.RealizedPnL()-10) > 1e-9 {
		t.Fatalf("expected realized pnl 10, got %.2f", account.RealizedPnL())
	}
	snap := account.Snapshot(map[string]float64{"BTC-USD": 110})
	if math.Abs(snap.Positions["BTC-USD"].AvgCost-110) > 1e-9 {
		t.Fatalf("expected remainder opened at 110, got %.2f", snap.Positions["BTC-USD"].AvgCost)
	}
}

func TestMarketFillInsufficientCash(t *testing.T) {
	account := NewAccount(10, 1)
	if err := account.MarketFill("BTC-USD", execution.Buy, 0.1, 200); err == nil {
		t.Fatalf("expected cash error")
	}
}

func TestMarketFillPositionLimit(t *testing.T) {
	account := NewAccount(1000, 0.1)
	if err := account.MarketFill("BTC-USD", execution.Buy, 0.2, 1000); err == nil {
		t.Fatalf("expected position limit error")
	}
	if err := account.MarketFill("BTC-USD", execution.Sell, 0.2, 1000); err == nil {
		t.Fatalf("expected position limit error on short side")
	}
}

func TestMarketFillRejectsBadInputs(t *testing.T) {
	account := NewAccount(1000, 1)
	if err := account.MarketFill("BTC-USD", execution.Buy, 0, 100); err == nil {
		t.Fatalf("expected quantity error")
	}
	if err := account.MarketFill("BTC-USD", execution.Buy, 1, 0); err == nil {
		t.Fatalf("expected price error")
	}
}
