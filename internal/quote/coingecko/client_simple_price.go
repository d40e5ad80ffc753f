package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// Fetch retrieves current prices for the given coin ids via the
// /simple/price endpoint. The result is keyed by coin id; ids the API
// did not price (unknown id, delisted coin) are simply absent.
func (c *Client) Fetch(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	return c.SimplePrice(ctx, ids, c.vsCurrency)
}

// SimplePrice retrieves current prices for ids denominated in vsCurrency.
func (c *Client) SimplePrice(ctx context.Context, ids []string, vsCurrency string, opts ...ClientOption) (map[string]decimal.Decimal, error) {
	var override = &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	vsCurrency = strings.ToLower(strings.TrimSpace(vsCurrency))
	if vsCurrency == "" {
		vsCurrency = "usd"
	}

	query := maps.Clone(override.query)
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", vsCurrency)

	url := fmt.Sprintf("%s/simple/price?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	// {
	//   "bitcoin": { "usd": 65000.5 },
	//   "tether-gold": { "usd": 2389.12 }
	// }
	var body map[string]map[string]json.Number
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding simple price response: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(body))
	for id, fields := range body {
		raw, ok := fields[vsCurrency]
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(raw.String())
		if err != nil {
			// Skip the one bad value instead of failing the batch.
			continue
		}
		prices[id] = d
	}
	return prices, nil
}
