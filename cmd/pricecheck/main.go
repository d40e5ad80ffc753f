package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/config"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/httpx"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/market"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote/coingecko"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/store"
)

// pricecheck performs one fetch-and-format cycle and prints the
// announcement, without needing Telegram credentials. Handy for
// checking the quote endpoint and the price store before deploying.
func main() {
	var configPath string
	var title string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.StringVar(&title, "title", market.TitleLive, "announcement title")
	flag.Parse()

	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.Schedule.Timezone).Fatal("loading timezone")
	}

	if err := store.EnsurePricesFile(cfg.Files.Prices); err != nil {
		log.WithError(err).Warn("bootstrapping prices file")
	}
	prices := store.LoadPrices(cfg.Files.Prices)

	httpClient := httpx.New(time.Duration(cfg.Quotes.RequestTimeoutSec) * time.Second)
	var source quote.Source = coingecko.New(
		coingecko.WithBaseURL(cfg.Quotes.Endpoint),
		coingecko.WithHTTPClient(httpClient),
		coingecko.WithVsCurrency(cfg.Quotes.Currency),
		coingecko.WithAPIKey(cfg.Quotes.APIKey),
	)

	tickers := make([]market.Ticker, 0, len(cfg.Quotes.Tickers))
	for _, t := range cfg.Quotes.Tickers {
		tickers = append(tickers, market.Ticker{Symbol: t.Symbol, ID: t.ID})
	}

	format := market.Formatter{Location: loc, Currency: cfg.Quotes.Currency}
	svc := market.NewService(source, prices, tickers, format, logrus.NewEntry(log))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Quotes.RequestTimeoutSec+5)*time.Second)
	defer cancel()

	fmt.Println(svc.Announcement(ctx, title))
}
