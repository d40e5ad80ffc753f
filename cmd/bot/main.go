package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/bot"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/config"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/httpx"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/market"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote/cache"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote/coingecko"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote/ratelimit"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/scheduler"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/store"
)

func main() {
	// .env is optional; Render/Railway inject real env vars.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.Schedule.Timezone).Fatal("loading timezone")
	}
	targets, err := scheduler.ParseTargets(cfg.Schedule.Targets)
	if err != nil {
		log.WithError(err).Fatal("parsing target times")
	}

	if err := store.EnsurePricesFile(cfg.Files.Prices); err != nil {
		log.WithError(err).Warn("bootstrapping prices file")
	}
	responses, err := store.OpenResponses(cfg.Files.Responses)
	if err != nil {
		log.WithError(err).Fatal("opening responses file")
	}

	svc := buildMarketService(cfg, loc, log)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.WithError(err).Fatal("connecting to telegram")
	}
	b := bot.New(api, svc, responses, cfg.Telegram.GroupID, logrus.NewEntry(log))

	sched := &scheduler.Scheduler{
		Targets:   targets,
		Interval:  time.Duration(cfg.Schedule.PollIntervalSec) * time.Second,
		Location:  loc,
		Broadcast: b.BroadcastMarketUpdate,
		Log:       logrus.NewEntry(log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(ctx, api) })
	g.Go(func() error { return sched.Run(ctx) })

	log.WithField("group_id", cfg.Telegram.GroupID).Info("🤖 bot is running")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("bot stopped")
	}
	log.Info("shutdown complete")
}

// buildMarketService assembles the quote source with its rate-limit and
// cache decorators, mirroring how the config enables each layer.
func buildMarketService(cfg config.Config, loc *time.Location, log *logrus.Logger) *market.Service {
	httpClient := httpx.New(time.Duration(cfg.Quotes.RequestTimeoutSec) * time.Second)

	var source quote.Source = coingecko.New(
		coingecko.WithBaseURL(cfg.Quotes.Endpoint),
		coingecko.WithHTTPClient(httpClient),
		coingecko.WithVsCurrency(cfg.Quotes.Currency),
		coingecko.WithAPIKey(cfg.Quotes.APIKey),
	)
	if cfg.Quotes.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.Quotes.MaxRequestsPerMinute) / 60.0
		burst := cfg.Quotes.Burst
		if burst <= 0 {
			burst = 1
		}
		source = &ratelimit.TokenBucketSource{S: source, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if cfg.Quotes.MinRequestIntervalSec > 0 {
		source = &ratelimit.MinInterval{S: source, Interval: time.Duration(cfg.Quotes.MinRequestIntervalSec) * time.Second}
	}
	if cfg.Quotes.CacheTTLSeconds > 0 {
		source = &cache.Source{S: source, TTL: time.Duration(cfg.Quotes.CacheTTLSeconds) * time.Second}
	}

	tickers := make([]market.Ticker, 0, len(cfg.Quotes.Tickers))
	for _, t := range cfg.Quotes.Tickers {
		tickers = append(tickers, market.Ticker{Symbol: t.Symbol, ID: t.ID})
	}

	prices := store.LoadPrices(cfg.Files.Prices)
	format := market.Formatter{Location: loc, Currency: cfg.Quotes.Currency}
	return market.NewService(source, prices, tickers, format, logrus.NewEntry(log))
}
