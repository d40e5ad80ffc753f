package coingecko

import (
	"net/http"
	"net/url"
)

const baseURL = "https://api.coingecko.com/api/v3"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the CoinGecko API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
	// vsCurrency is the quote currency used by Fetch.
	vsCurrency string
}

// ClientOption is a configuration option for the CoinGecko API client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithVsCurrency sets the quote currency used by Fetch. Defaults to usd.
func WithVsCurrency(vsCurrency string) ClientOption {
	return func(c *Client) {
		if vsCurrency != "" {
			c.vsCurrency = vsCurrency
		}
	}
}

// WithAPIKey sets the demo API key query parameter. The free tier works
// without one but gets a higher rate allowance with it.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		if key != "" {
			c.query.Set("x_cg_demo_api_key", key)
		}
	}
}

// New creates a new CoinGecko API client.
func New(options ...ClientOption) *Client {
	var client = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
		vsCurrency: "usd",
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Name identifies the source in logs.
func (c *Client) Name() string { return "CoinGecko" }
