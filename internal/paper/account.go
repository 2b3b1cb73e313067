// Package paper simulates fills and balances so the full pipeline can run without a venue.
package paper

import (
	"errors"
	"math"
	"sync"

	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
)

// FillRecorder captures paper fills for later inspection.
type FillRecorder interface {
	Record(execution.Fill)
}

const epsilon = 1e-9

// positionState holds a signed quantity: positive long, negative short.
type positionState struct {
	Qty     float64
	AvgCost float64
}

// Account tracks virtual cash, realized PnL, and per-product positions while trading
// in paper mode. Unlike a spot account it allows signed positions, since the decision
// engine opens shorts as readily as longs.
type Account struct {
	mu           sync.Mutex
	startingCash float64
	cash         float64
	realizedPnL  float64
	maxPosition  float64
	positions    map[string]positionState
}

// PositionSnapshot exposes a read-only view of a single product position.
type PositionSnapshot struct {
	Qty         float64
	AvgCost     float64
	MarketValue float64
	Unrealized  float64
}

// Snapshot represents a thread-safe view of the account state, optionally marked to
// market using provided prices.
type Snapshot struct {
	Cash        float64
	RealizedPnL float64
	Equity      float64
	Positions   map[string]PositionSnapshot
}

// NewAccount constructs an account populated with starting cash and an optional cap
// on absolute position size per product.
func NewAccount(startingCash, maxPosition float64) *Account {
	return &Account{
		startingCash: startingCash,
		cash:         startingCash,
		maxPosition:  maxPosition,
		positions:    make(map[string]positionState),
	}
}

// StartingCash returns the initial bankroll used to compute drawdown.
func (a *Account) StartingCash() float64 { return a.startingCash }

// MarketFill executes a simulated fill at the provided price, mutating balances. A
// fill against an opposite position first reduces it, realizing PnL, and any
// remainder opens a position on the new side.
func (a *Account) MarketFill(productID string, side execution.Side, qty, price float64) error {
	if qty <= 0 {
		return errors.New("quantity must be positive")
	}
	if price <= 0 {
		return errors.New("price must be positive")
	}

	signed := qty
	if side == execution.Sell {
		signed = -qty
	} else if side != execution.Buy {
		return errors.New("unknown order side")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.positions[productID]
	newQty := state.Qty + signed
	if a.maxPosition > 0 && math.Abs(newQty) > a.maxPosition+epsilon {
		return errors.New("position limit exceeded")
	}

	if state.Qty == 0 || sameSign(state.Qty, signed) {
		// Opening or extending: buys consume cash, short sales raise proceeds.
		if side == execution.Buy && qty*price > a.cash+epsilon {
			return errors.New("insufficient cash for buy")
		}
		newAvg := price
		if math.Abs(state.Qty) > epsilon {
			newAvg = (state.AvgCost*math.Abs(state.Qty) + qty*price) / math.Abs(newQty)
		}
		a.cash -= signed * price
		a.positions[productID] = positionState{Qty: newQty, AvgCost: newAvg}
		return nil
	}

	// Reducing, closing, or flipping an opposite position.
	closing := math.Min(qty, math.Abs(state.Qty))
	if state.Qty > 0 {
		a.realizedPnL += (price - state.AvgCost) * closing
	} else {
		a.realizedPnL += (state.AvgCost - price) * closing
	}
	a.cash -= signed * price

	switch {
	case math.Abs(newQty) <= epsilon:
		delete(a.positions, productID)
	case sameSign(newQty, signed):
		// Flipped through zero: the remainder opens at the fill price.
		a.positions[productID] = positionState{Qty: newQty, AvgCost: price}
	default:
		a.positions[productID] = positionState{Qty: newQty, AvgCost: state.AvgCost}
	}
	return nil
}

// Snapshot returns a copy of balances, optionally marked using the supplied prices map.
func (a *Account) Snapshot(prices map[string]float64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	positions := make(map[string]PositionSnapshot, len(a.positions))
	equity := a.cash
	for id, pos := range a.positions {
		mark := prices[id]
		marketValue := pos.Qty * mark
		unrealized := (mark - pos.AvgCost) * pos.Qty
		if mark == 0 {
			marketValue = 0
			unrealized = 0
		}
		positions[id] = PositionSnapshot{
			Qty:         pos.Qty,
			AvgCost:     pos.AvgCost,
			MarketValue: marketValue,
			Unrealized:  unrealized,
		}
		equity += marketValue
	}

	return Snapshot{
		Cash:        a.cash,
		RealizedPnL: a.realizedPnL,
		Equity:      equity,
		Positions:   positions,
	}
}

// AvailableCash reports free cash that can be deployed into new longs.
func (a *Account) AvailableCash() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash
}

// Position returns the current signed position size for the supplied product.
func (a *Account) Position(productID string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positions[productID].Qty
}

// RealizedPnL returns total closed-trade profit and loss.
func (a *Account) RealizedPnL() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.realizedPnL
}

func sameSign(a, b float64) bool {
	return (a > 0) == (b > 0)
}
