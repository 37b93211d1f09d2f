// Package coingecko is a client for the CoinGecko public markets API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"marketdash/internal/provider"
)

const (
	baseURL = "https://api.coingecko.com/api/v3"
	// MaxPerPage is the largest page the markets endpoint serves.
	MaxPerPage = 250
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the CoinGecko API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	currency   string
}

// Option is a configuration option for the CoinGecko client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithCurrency sets the quote currency (vs_currency), "usd" by default.
func WithCurrency(currency string) Option {
	return func(c *Client) {
		c.currency = strings.ToLower(currency)
	}
}

// New creates a new CoinGecko client. A non-empty key is sent as the demo API
// key header.
func New(key string, options ...Option) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		currency:   "usd",
	}
	if key != "" {
		c.header.Set("x-cg-demo-api-key", key)
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// MarketsQuery selects one page of the markets listing.
type MarketsQuery struct {
	Order                 string
	PerPage               int
	Page                  int
	PriceChangePercentage []string
}

// Markets returns one page of /coins/markets.
func (c *Client) Markets(ctx context.Context, q MarketsQuery) ([]provider.Market, error) {
	if q.Order == "" {
		q.Order = "market_cap_desc"
	}
	if q.PerPage <= 0 || q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	query := url.Values{}
	query.Set("vs_currency", c.currency)
	query.Set("order", q.Order)
	query.Set("per_page", strconv.Itoa(q.PerPage))
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("sparkline", "false")
	if len(q.PriceChangePercentage) > 0 {
		query.Set("price_change_percentage", strings.Join(q.PriceChangePercentage, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/coins/markets?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")
	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var markets []provider.Market
	if err := json.NewDecoder(res.Body).Decode(&markets); err != nil {
		return nil, fmt.Errorf("decoding markets response: %w", err)
	}
	return markets, nil
}

// TopMarkets returns the n largest assets by market capitalization with 24h
// and 7d price change percentages, paging as needed. It stops early when the
// listing runs out.
func (c *Client) TopMarkets(ctx context.Context, n int) ([]provider.Market, error) {
	// Page offsets are per_page * (page-1), so the page size stays fixed.
	perPage := min(n, MaxPerPage)
	out := make([]provider.Market, 0, n)
	for page := 1; len(out) < n; page++ {
		batch, err := c.Markets(ctx, MarketsQuery{
			PerPage:               perPage,
			Page:                  page,
			PriceChangePercentage: []string{"24h", "7d"},
		})
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		out = append(out, batch...)
		if len(batch) < perPage {
			break
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
