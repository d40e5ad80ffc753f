package cache

import (
    "context"
    "sync"
    "time"

    "github.com/shopspring/decimal"

    "github.com/Ponleu2019/TelegramTradingBot-Render/internal/quote"
)

// entry stores a cached price for a single id with expiry.
type entry struct {
    expiresAt time.Time
    price     decimal.Decimal
}

// Source caches prices per id for a TTL.
// It requests only missing ids from the underlying source and
// combines cached + fresh results. A burst of chat-triggered price
// requests therefore costs at most one upstream call per TTL window.
type Source struct {
    S   quote.Source
    TTL time.Duration

    mu    sync.RWMutex
    items map[string]entry // key: id
}

func (c *Source) Name() string { return c.S.Name() }

// Fetch returns prices for requested ids using cache when valid.
func (c *Source) Fetch(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
    if c.TTL <= 0 {
        return c.S.Fetch(ctx, ids)
    }

    now := time.Now()

    cached := make(map[string]decimal.Decimal, len(ids))
    missing := make([]string, 0, len(ids))
    seen := make(map[string]struct{}, len(ids))

    c.mu.RLock()
    for _, id := range ids {
        if _, dup := seen[id]; dup {
            continue
        }
        seen[id] = struct{}{}
        if e, ok := c.items[id]; ok && now.Before(e.expiresAt) {
            cached[id] = e.price
            continue
        }
        missing = append(missing, id)
    }
    c.mu.RUnlock()

    // If everything is cached, return quickly
    if len(missing) == 0 {
        return cached, nil
    }

    fresh, err := c.S.Fetch(ctx, missing)
    if err != nil {
        // If we have at least some cached data, return it rather than failing entirely
        if len(cached) > 0 {
            return cached, nil
        }
        return nil, err
    }

    expiry := now.Add(c.TTL)
    c.mu.Lock()
    if c.items == nil {
        c.items = make(map[string]entry, len(fresh))
    }
    for id, price := range fresh {
        c.items[id] = entry{expiresAt: expiry, price: price}
        cached[id] = price
    }
    // drop expired entries while we hold the lock
    for id, e := range c.items {
        if now.After(e.expiresAt) {
            delete(c.items, id)
        }
    }
    c.mu.Unlock()

    return cached, nil
}
