package quote

import (
    "context"

    "github.com/shopspring/decimal"
)

// Source fetches current prices for provider-specific ids.
// The returned map contains only ids the provider actually priced;
// callers treat missing ids as unavailable.
type Source interface {
    Name() string
    Fetch(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}
