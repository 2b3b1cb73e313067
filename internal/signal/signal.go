// Package signal standardizes payloads shared between stream adapters and the core pipeline.
package signal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mention models a single social-media mention of the tracked keyword.
type Mention struct {
	Text      string
	Author    string
	Followers int
	Ts        time.Time
}

// Tick models a single trade print for the tracked product.
type Tick struct {
	Price float64
	Size  float64
	Ts    time.Time
}

// BookTop is a snapshot of the best bid and ask for the tracked product.
type BookTop struct {
	BidPrice decimal.Decimal
	BidSize  decimal.Decimal
	AskPrice decimal.Decimal
	AskSize  decimal.Decimal
	Ts       time.Time
}
