package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Telegram struct {
    Token   string `json:"token"`
    GroupID int64  `json:"group_id"`
}

type Ticker struct {
    Symbol string `json:"symbol"`
    ID     string `json:"id"`
}

type Quotes struct {
    Endpoint              string   `json:"endpoint"`
    Currency              string   `json:"currency"`
    APIKey                string   `json:"api_key"`
    RequestTimeoutSec     int      `json:"request_timeout_sec"`
    MaxRequestsPerMinute  int      `json:"max_requests_per_minute"`
    Burst                 int      `json:"burst"`
    MinRequestIntervalSec int      `json:"min_request_interval_sec"`
    CacheTTLSeconds       int      `json:"cache_ttl_sec"`
    Tickers               []Ticker `json:"tickers"`
}

type Schedule struct {
    Timezone        string `json:"timezone"`
    Targets         string `json:"targets"`
    PollIntervalSec int    `json:"poll_interval_sec"`
}

type Files struct {
    Prices    string `json:"prices"`
    Responses string `json:"responses"`
}

type Config struct {
    Telegram Telegram `json:"telegram"`
    Quotes   Quotes   `json:"quotes"`
    Schedule Schedule `json:"schedule"`
    Files    Files    `json:"files"`
}

func Default() Config {
    return Config{
        Quotes: Quotes{
            Endpoint:          "https://api.coingecko.com/api/v3",
            Currency:          "usd",
            RequestTimeoutSec: 10,
            Tickers: []Ticker{
                {Symbol: "BTC", ID: "bitcoin"},
                {Symbol: "ETH", ID: "ethereum"},
                {Symbol: "BNB", ID: "binancecoin"},
                {Symbol: "SOL", ID: "solana"},
                {Symbol: "XAU", ID: "tether-gold"}, // gold token stands in for spot gold
            },
        },
        Schedule: Schedule{
            Timezone:        "Asia/Bangkok",
            Targets:         "09:00,12:00,19:00",
            PollIntervalSec: 30,
        },
        Files: Files{
            Prices:    "prices.json",
            Responses: "responses.json",
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

// Validate reports the fatal startup conditions.
func (c Config) Validate() error {
    if c.Telegram.Token == "" || c.Telegram.GroupID == 0 {
        return errors.New("TOKEN or GROUP_ID not set")
    }
    if len(c.Quotes.Tickers) == 0 {
        return errors.New("no tickers configured")
    }
    return nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("TOKEN"); v != "" { cfg.Telegram.Token = v }
    if v := os.Getenv("GROUP_ID"); v != "" {
        var x int64; fmt.Sscanf(v, "%d", &x); if x != 0 { cfg.Telegram.GroupID = x }
    }
    if v := os.Getenv("PRICES_FILE"); v != "" { cfg.Files.Prices = v }
    if v := os.Getenv("RESPONSES_FILE"); v != "" { cfg.Files.Responses = v }
    if v := os.Getenv("TIMEZONE"); v != "" { cfg.Schedule.Timezone = v }
    if v := os.Getenv("TARGET_TIMES"); v != "" { cfg.Schedule.Targets = v }
    if v := os.Getenv("POLL_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Schedule.PollIntervalSec = x }
    }
    if v := os.Getenv("QUOTE_ENDPOINT"); v != "" { cfg.Quotes.Endpoint = v }
    if v := os.Getenv("QUOTE_CURRENCY"); v != "" { cfg.Quotes.Currency = v }
    if v := os.Getenv("COINGECKO_API_KEY"); v != "" { cfg.Quotes.APIKey = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Quotes.RequestTimeoutSec = x }
    }
    if v := os.Getenv("QUOTE_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Quotes.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("QUOTE_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Quotes.Burst = x }
    }
    if v := os.Getenv("QUOTE_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Quotes.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("QUOTE_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Quotes.CacheTTLSeconds = x }
    }
    if v := os.Getenv("TICKERS"); v != "" {
        if ts := parseTickersCSV(v); len(ts) > 0 { cfg.Quotes.Tickers = ts }
    }
}

// parseTickersCSV parses "BTC=bitcoin,ETH=ethereum" pairs.
func parseTickersCSV(s string) []Ticker {
    parts := strings.Split(s, ",")
    out := make([]Ticker, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        sym, id, ok := strings.Cut(p, "=")
        sym, id = strings.TrimSpace(sym), strings.TrimSpace(id)
        if !ok || sym == "" || id == "" { continue }
        out = append(out, Ticker{Symbol: sym, ID: id})
    }
    return out
}
