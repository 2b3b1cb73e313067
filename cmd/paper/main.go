// Binary paper runs the full pipeline against the stub feeds and fills intents
// into a simulated account instead of logging them.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/config"
	"github.com/0xm1kr/cbp-twitter-bot/internal/exchange"
	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/paper"
	"github.com/0xm1kr/cbp-twitter-bot/internal/pipeline"
	"github.com/0xm1kr/cbp-twitter-bot/internal/risk"
	"github.com/0xm1kr/cbp-twitter-bot/internal/sentiment"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
	"github.com/0xm1kr/cbp-twitter-bot/internal/util"
)

func main() {
	configPath := flag.String("config", "internal/config/config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := util.NewLogger("info")
		fallback.Fatal().Err(err).Msg("load config")
	}
	log := util.NewConsoleLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Paper runs always use the stub providers.
	books := exchange.NewFeed(exchange.ProviderStub, cfg.Exchange.ProductID, log)
	mentionsFeed := sentiment.NewFeed(sentiment.ProviderStub, cfg.Sentiment.Keyword, log)

	ticks := make(chan signal.Tick, 1024)
	mentions := make(chan signal.Mention, 1024)
	go func() {
		if err := books.Run(ctx, ticks); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("exchange feed stopped")
			close(ticks)
		}
	}()
	go func() {
		if err := mentionsFeed.Run(ctx, mentions); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("sentiment feed stopped")
			close(mentions)
		}
	}()

	account := paper.NewAccount(cfg.Paper.StartingCash, cfg.Paper.MaxPositionPerSymbol)
	ledger := paper.NewLedger(0)
	recorders := []paper.FillRecorder{ledger}
	if cfg.Paper.FillsPath != "" {
		rec, err := paper.NewJSONLRecorder(cfg.Paper.FillsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Paper.FillsPath).Msg("open fills recorder")
		}
		defer rec.Close()
		recorders = append(recorders, rec)
	}
	sink := paper.NewSink(account, log, recorders...)

	orderSize, err := decimal.NewFromString(cfg.Algo.OrderSize)
	if err != nil {
		log.Fatal().Err(err).Str("order_size", cfg.Algo.OrderSize).Msg("parse order size")
	}

	pipe := pipeline.New(pipeline.Config{
		ProductID:        cfg.Exchange.ProductID,
		Keyword:          cfg.Sentiment.Keyword,
		WindowPeriod:     time.Duration(cfg.Algo.WindowPeriodMs) * time.Millisecond,
		WindowCount:      cfg.Algo.WindowCount,
		FastSpan:         cfg.Algo.FastSpan,
		SlowSpan:         cfg.Algo.SlowSpan,
		SlopeHorizon:     cfg.Algo.SlopeHorizon,
		DecisionPeriod:   time.Duration(cfg.Algo.DecisionPeriodMs) * time.Millisecond,
		OrderSize:        orderSize,
		ThresholdPos:     cfg.Algo.ThresholdPos,
		ThresholdNeg:     cfg.Algo.ThresholdNeg,
		RetentionWindows: cfg.Algo.RetentionWindows,
		Limits:           risk.Limits{MaxNotionalPerTrade: decimal.NewFromFloat(cfg.Risk.MaxNotionalPerTrade)},
	}, books, sink, sentiment.LexiconScore, log)

	if err := pipe.Run(ctx, mentions, ticks); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("pipeline stopped")
	}

	snap := account.Snapshot(nil)
	log.Info().
		Float64("cash", snap.Cash).
		Float64("realized_pnl", snap.RealizedPnL).
		Int("fills", len(ledger.Snapshot())).
		Msg("paper session closed")
}
