package exchange

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
)

type coinbaseSubscribe struct {
	Type     string            `json:"type"`
	Channels []coinbaseChannel `json:"channels"`
}

type coinbaseChannel struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
}

type coinbaseTicker struct {
	Type        string `json:"type"`
	ProductID   string `json:"product_id"`
	Price       string `json:"price"`
	LastSize    string `json:"last_size"`
	BestBid     string `json:"best_bid"`
	BestBidSize string `json:"best_bid_size"`
	BestAsk     string `json:"best_ask"`
	BestAskSize string `json:"best_ask_size"`
	Time        string `json:"time"`
}

func (f *Feed) runCoinbase(ctx context.Context, out chan<- signal.Tick) error {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.consumeCoinbaseStream(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Warn().Err(err).Msg("coinbase feed disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (f *Feed) consumeCoinbaseStream(ctx context.Context, out chan<- signal.Tick) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := coinbaseSubscribe{
		Type: "subscribe",
		Channels: []coinbaseChannel{
			{Name: "ticker", ProductIDs: []string{f.productID}},
		},
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}

	f.log.Info().Str("provider", ProviderCoinbase).Str("product", f.productID).Msg("connected market data feed")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					f.log.Warn().Err(err).Msg("coinbase ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))

		var msg coinbaseTicker
		if err := json.Unmarshal(message, &msg); err != nil {
			f.log.Warn().Err(err).Msg("failed to decode coinbase message")
			continue
		}
		if msg.Type != "ticker" || msg.Price == "" {
			continue
		}

		px, err := strconv.ParseFloat(msg.Price, 64)
		if err != nil {
			f.log.Warn().Err(err).Msg("invalid price from coinbase")
			continue
		}
		size, err := strconv.ParseFloat(msg.LastSize, 64)
		if err != nil {
			size = 0
		}
		ts := time.Now()
		if parsed, err := time.Parse(time.RFC3339Nano, msg.Time); err == nil {
			ts = parsed
		}

		if top, ok := parseTop(msg, ts); ok {
			f.setTop(top)
		}

		tick := signal.Tick{Price: px, Size: size, Ts: ts}
		select {
		case out <- tick:
			metrics.TicksTotal.Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func parseTop(msg coinbaseTicker, ts time.Time) (signal.BookTop, bool) {
	bid, err := decimal.NewFromString(msg.BestBid)
	if err != nil {
		return signal.BookTop{}, false
	}
	ask, err := decimal.NewFromString(msg.BestAsk)
	if err != nil {
		return signal.BookTop{}, false
	}
	bidSize, err := decimal.NewFromString(msg.BestBidSize)
	if err != nil {
		bidSize = decimal.Zero
	}
	askSize, err := decimal.NewFromString(msg.BestAskSize)
	if err != nil {
		askSize = decimal.Zero
	}
	return signal.BookTop{
		BidPrice: bid,
		BidSize:  bidSize,
		AskPrice: ask,
		AskSize:  askSize,
		Ts:       ts,
	}, true
}
