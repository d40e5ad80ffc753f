package ratelimit

import (
    "context"
    "testing"
    "time"

    "github.com/shopspring/decimal"
)

type countingSource struct{ calls int }

func (c *countingSource) Name() string { return "counting" }
func (c *countingSource) Fetch(context.Context, []string) (map[string]decimal.Decimal, error) {
    c.calls++
    return map[string]decimal.Decimal{}, nil
}

func TestMinInterval_GatesSecondCall(t *testing.T) {
    src := &countingSource{}
    m := &MinInterval{S: src, Interval: 50 * time.Millisecond}

    start := time.Now()
    if _, err := m.Fetch(context.Background(), nil); err != nil {
        t.Fatal(err)
    }
    if _, err := m.Fetch(context.Background(), nil); err != nil {
        t.Fatal(err)
    }
    if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
        t.Fatalf("second call ran too early: %v", elapsed)
    }
    if src.calls != 2 {
        t.Fatalf("calls: %d", src.calls)
    }
}

func TestMinInterval_ContextCancelUnblocks(t *testing.T) {
    src := &countingSource{}
    m := &MinInterval{S: src, Interval: time.Hour}
    if _, err := m.Fetch(context.Background(), nil); err != nil {
        t.Fatal(err)
    }

    ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
    defer cancel()
    if _, err := m.Fetch(ctx, nil); err == nil {
        t.Fatal("want context error while gated")
    }
    if src.calls != 1 {
        t.Fatalf("gated call must not reach the source: %d", src.calls)
    }
}

func TestTokenBucket_BurstThenRefill(t *testing.T) {
    src := &countingSource{}
    tb := &TokenBucketSource{S: src, TB: NewTokenBucket(20, 2)} // 2 burst, 50ms/token

    start := time.Now()
    for i := 0; i < 3; i++ {
        if _, err := tb.Fetch(context.Background(), nil); err != nil {
            t.Fatal(err)
        }
    }
    elapsed := time.Since(start)
    if elapsed < 40*time.Millisecond {
        t.Fatalf("third call must wait for a refill, elapsed %v", elapsed)
    }
    if src.calls != 3 {
        t.Fatalf("calls: %d", src.calls)
    }
}
