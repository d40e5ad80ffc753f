package config

import (
    "os"
    "path/filepath"
    "testing"
)

func TestDefault_ValidateRequiresCredentials(t *testing.T) {
    cfg := Default()
    if err := cfg.Validate(); err == nil {
        t.Fatal("defaults carry no credentials and must not validate")
    }

    cfg.Telegram.Token = "123:abc"
    cfg.Telegram.GroupID = -1001234
    if err := cfg.Validate(); err != nil {
        t.Fatalf("unexpected: %v", err)
    }

    cfg.Quotes.Tickers = nil
    if err := cfg.Validate(); err == nil {
        t.Fatal("empty ticker list must not validate")
    }
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
    path := filepath.Join(t.TempDir(), "config.json")
    body := `{
        "telegram": {"token": "file-token", "group_id": -42},
        "schedule": {"timezone": "UTC", "targets": "08:00"}
    }`
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatal(err)
    }
    t.Setenv("TOKEN", "env-token")
    t.Setenv("GROUP_ID", "")
    t.Setenv("TARGET_TIMES", "")
    t.Setenv("TICKERS", "")

    cfg, err := Load(path)
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Telegram.Token != "env-token" {
        t.Fatalf("env must override file: %q", cfg.Telegram.Token)
    }
    if cfg.Telegram.GroupID != -42 {
        t.Fatalf("file value must survive empty env: %d", cfg.Telegram.GroupID)
    }
    if cfg.Schedule.Timezone != "UTC" || cfg.Schedule.Targets != "08:00" {
        t.Fatalf("schedule: %+v", cfg.Schedule)
    }
    // Untouched sections keep defaults.
    if cfg.Quotes.Endpoint == "" || len(cfg.Quotes.Tickers) != 5 {
        t.Fatalf("quotes defaults lost: %+v", cfg.Quotes)
    }
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
    t.Setenv("TOKEN", "")
    t.Setenv("GROUP_ID", "")
    t.Setenv("TICKERS", "")
    cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Schedule.Timezone != "Asia/Bangkok" {
        t.Fatalf("default timezone: %q", cfg.Schedule.Timezone)
    }
}

func TestParseTickersCSV(t *testing.T) {
    got := parseTickersCSV("BTC=bitcoin, ETH = ethereum ,bad,=x,")
    if len(got) != 2 {
        t.Fatalf("got %+v", got)
    }
    if got[0] != (Ticker{Symbol: "BTC", ID: "bitcoin"}) || got[1] != (Ticker{Symbol: "ETH", ID: "ethereum"}) {
        t.Fatalf("got %+v", got)
    }
}
