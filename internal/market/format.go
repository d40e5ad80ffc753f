package market

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Default announcement titles.
const (
	TitleLive      = "💹 Live Market Prices"
	TitleScheduled = "📊 Market Update"
)

const tagline = "\n💰 One trade is enough to change your life 💸"

// symbolGlyphs decorates known pairs; anything else gets the fallback.
var symbolGlyphs = map[string]string{
	"BTC": "💰",
	"ETH": "💎",
	"BNB": "🟡",
	"SOL": "🟣",
	"XAU": "🏅",
}

const fallbackGlyph = "📈"

// Formatter renders snapshots as announcement text. Location is the
// zone stamped into the header; Currency is the quote currency shown in
// the pair name.
type Formatter struct {
	Location *time.Location
	Currency string
}

// Format renders one announcement. Deterministic given the snapshot and
// the instant.
func (f Formatter) Format(snap Snapshot, title string, now time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	cur := strings.ToUpper(f.Currency)
	if cur == "" {
		cur = "USD"
	}

	printer := message.NewPrinter(language.English)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s):\n\n", title, now.In(loc).Format("2006-01-02 15:04:05"))
	for _, e := range snap.Entries {
		if !e.OK {
			fmt.Fprintf(&b, "⚠️ %s/%s: N/A %s\n", e.Symbol, cur, e.Movement.Glyph())
			continue
		}
		glyph, ok := symbolGlyphs[e.Symbol]
		if !ok {
			glyph = fallbackGlyph
		}
		rendered := printer.Sprintf("%v", number.Decimal(
			e.Price.InexactFloat64(),
			number.MinFractionDigits(2),
			number.MaxFractionDigits(2),
		))
		fmt.Fprintf(&b, "%s %s/%s: $%s %s\n", glyph, e.Symbol, cur, rendered, e.Movement.Glyph())
	}
	b.WriteString(tagline)
	return b.String()
}
