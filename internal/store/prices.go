package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shopspring/decimal"
)

// Prices is the durable symbol -> last observed price map.
// Values are kept as decimals in memory and persisted as plain JSON
// numbers, so the file stays hand-editable and compatible with files
// written by earlier versions of the bot.
//
// The fetcher is the only writer, but handlers and the scheduler run on
// separate goroutines, so access is guarded by a mutex.
type Prices struct {
	path string

	mu   sync.Mutex
	last map[string]decimal.Decimal
}

// LoadPrices reads the price file at path. A missing or unreadable file
// yields an empty store; the first fetch will populate and rewrite it.
func LoadPrices(path string) *Prices {
	p := &Prices{path: path, last: make(map[string]decimal.Decimal)}

	b, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	var raw map[string]json.Number
	if err := json.Unmarshal(b, &raw); err != nil {
		return p
	}
	for sym, n := range raw {
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			continue
		}
		p.last[sym] = d
	}
	return p
}

// Get returns the last stored price for symbol.
func (p *Prices) Get(symbol string) (decimal.Decimal, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.last[symbol]
	return d, ok
}

// Set records the latest price for symbol in memory only; call Save to persist.
func (p *Prices) Set(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last[symbol] = price
}

// Save rewrites the whole price file from the in-memory map.
func (p *Prices) Save() error {
	p.mu.Lock()
	out := make(map[string]json.Number, len(p.last))
	for sym, d := range p.last {
		out[sym] = json.Number(d.String())
	}
	p.mu.Unlock()

	b, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal prices: %w", err)
	}
	if err := os.WriteFile(p.path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	return nil
}

// EnsurePricesFile creates an empty price file when none exists.
func EnsurePricesFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte("{}"), 0o644)
}
