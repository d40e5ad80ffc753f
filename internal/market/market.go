package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/store"
)

// Movement classifies a freshly fetched price against the stored one.
type Movement int

const (
	MovementUnknown Movement = iota
	MovementFlat
	MovementUp
	MovementDown
)

// Glyph returns the arrow shown next to a price line.
func (m Movement) Glyph() string {
	switch m {
	case MovementUp:
		return "🔼"
	case MovementDown:
		return "🔽"
	case MovementFlat:
		return "➡️"
	default:
		return "❓"
	}
}

// Ticker maps a display symbol to the quote provider's coin id.
type Ticker struct {
	Symbol string `json:"symbol"`
	ID     string `json:"id"`
}

// Entry is one symbol's slot in a snapshot. OK is false when no valid
// price could be obtained; Price is meaningless in that case.
type Entry struct {
	Symbol   string
	Price    decimal.Decimal
	OK       bool
	Movement Movement
}

// Snapshot is a point-in-time view over all configured symbols, in
// ticker order.
type Snapshot struct {
	Entries []Entry
}

// Service owns the live-price state: the quote source, the durable
// price store and the ticker list. It is shared by the chat handlers
// and the scheduler; the store does its own locking.
type Service struct {
	source  quote.Source
	prices  *store.Prices
	tickers []Ticker
	format  Formatter
	log     *logrus.Entry
}

func NewService(source quote.Source, prices *store.Prices, tickers []Ticker, format Formatter, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{source: source, prices: prices, tickers: tickers, format: format, log: log}
}

// Snapshot fetches current prices for every ticker, classifies movement
// against the store, updates the store and persists it. It never fails:
// provider errors degrade to unknown entries, persistence errors are
// logged and swallowed. The next call is the retry.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	ids := make([]string, 0, len(s.tickers))
	for _, t := range s.tickers {
		ids = append(ids, t.ID)
	}

	fetched, err := s.source.Fetch(ctx, ids)
	if err != nil {
		s.log.WithError(err).WithField("source", s.source.Name()).Error("price fetch failed")
		fetched = nil
	}

	snap := Snapshot{Entries: make([]Entry, 0, len(s.tickers))}
	for _, t := range s.tickers {
		raw, ok := fetched[t.ID]
		if !ok {
			snap.Entries = append(snap.Entries, Entry{Symbol: t.Symbol, Movement: MovementUnknown})
			continue
		}
		price := raw.Round(2)

		movement := MovementFlat
		if prev, known := s.prices.Get(t.Symbol); known {
			switch price.Cmp(prev) {
			case 1:
				movement = MovementUp
			case -1:
				movement = MovementDown
			}
		}
		s.prices.Set(t.Symbol, price)
		snap.Entries = append(snap.Entries, Entry{Symbol: t.Symbol, Price: price, OK: true, Movement: movement})
	}

	if err := s.prices.Save(); err != nil {
		s.log.WithError(err).Error("saving prices")
	}
	return snap
}

// Announcement fetches a snapshot and renders it under the given title.
func (s *Service) Announcement(ctx context.Context, title string) string {
	return s.format.Format(s.Snapshot(ctx), title, time.Now())
}
