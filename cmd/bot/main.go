// Binary bot runs the live pipeline: Coinbase ticker plus keyword mentions in,
// logged order intents out.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/0xm1kr/cbp-twitter-bot/internal/config"
	"github.com/0xm1kr/cbp-twitter-bot/internal/exchange"
	"github.com/0xm1kr/cbp-twitter-bot/internal/execution"
	"github.com/0xm1kr/cbp-twitter-bot/internal/metrics"
	"github.com/0xm1kr/cbp-twitter-bot/internal/pipeline"
	"github.com/0xm1kr/cbp-twitter-bot/internal/risk"
	"github.com/0xm1kr/cbp-twitter-bot/internal/sentiment"
	"github.com/0xm1kr/cbp-twitter-bot/internal/signal"
	"github.com/0xm1kr/cbp-twitter-bot/internal/util"
)

func main() {
	configPath := flag.String("config", "internal/config/config.yaml", "path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := util.NewLogger("info")
		fallback.Fatal().Err(err).Msg("load config")
	}
	creds, overrides, err := config.FromEnv()
	if err != nil {
		fallback := util.NewLogger("info")
		fallback.Fatal().Err(err).Msg("parse environment")
	}
	overrides.Apply(cfg)

	log := util.NewLogger(cfg.App.LogLevel)
	if cfg.App.Env == "dev" {
		log = util.NewConsoleLogger(cfg.App.LogLevel)
	}

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	if cfg.Exchange.Provider == exchange.ProviderCoinbase && !creds.HasExchange() {
		log.Debug().Msg("no exchange credentials, consuming the public feed")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	books := exchange.NewFeed(cfg.Exchange.Provider, cfg.Exchange.ProductID, log,
		exchange.WithWSURL(cfg.Exchange.WSURL))
	mentionsFeed := sentiment.NewFeed(cfg.Sentiment.Provider, cfg.Sentiment.Keyword, log)

	ticks := make(chan signal.Tick, 1024)
	mentions := make(chan signal.Mention, 1024)

	go func() {
		err := books.Run(ctx, ticks)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("product", cfg.Exchange.ProductID).Msg("exchange feed stopped")
			close(ticks)
		}
	}()
	go func() {
		err := mentionsFeed.Run(ctx, mentions)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("keyword", cfg.Sentiment.Keyword).Msg("sentiment feed stopped")
			close(mentions)
		}
	}()

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
	}, books, execution.NewExecutor(log), sentiment.LexiconScore, log)

	if err := pipe.Run(ctx, mentions, ticks); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("pipeline stopped")
	}
	log.Info().Msg("shutting down")
}
