// Package yahoo is a client for the unofficial Yahoo Finance JSON endpoints
// (chart, quoteSummary and options).
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const (
	baseURL   = "https://query2.finance.yahoo.com"
	cookieURL = "https://fc.yahoo.com"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for Yahoo Finance.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// cookieURL is visited once to obtain the session cookie the crumb is bound to.
	cookieURL string
	// httpClient is the HTTP client. It must keep cookies between calls.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header

	mu    sync.Mutex
	crumb string
}

// Option is a configuration option for the Yahoo client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithCookieURL sets the URL visited to obtain a session cookie.
func WithCookieURL(u string) Option {
	return func(c *Client) {
		c.cookieURL = u
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

// WithCrumb presets the crumb and skips the cookie handshake.
func WithCrumb(crumb string) Option {
	return func(c *Client) {
		c.crumb = crumb
	}
}

// New creates a new Yahoo Finance client.
func New(options ...Option) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		cookieURL:  cookieURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(c)
	}
	if c.httpClient == nil {
		return nil, fmt.Errorf("nil http client")
	}
	return c, nil
}

// Symbol converts an exchange ticker to Yahoo's notation (BRK.B -> BRK-B).
func Symbol(ticker string) string {
	return strings.ReplaceAll(strings.TrimSpace(ticker), ".", "-")
}

// ensureCrumb performs the cookie + crumb handshake once per client.
func (c *Client) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	// The cookie endpoint answers 404 but still sets the session cookie.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cookieURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating cookie request: %w", err)
	}
	req.Header = c.header.Clone()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing cookie request: %w", err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating crumb request: %w", err)
	}
	req.Header = c.header.Clone()
	res, err = c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing crumb request: %w", err)
	}
	defer res.Body.Close()
	if err := statusError(res); err != nil {
		return "", fmt.Errorf("crumb: %w", err)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, 1<<10))
	if err != nil {
		return "", fmt.Errorf("reading crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(b))
	if crumb == "" || strings.Contains(crumb, "<") {
		return "", fmt.Errorf("crumb: empty or malformed response")
	}
	c.crumb = crumb
	return crumb, nil
}

// resetCrumb drops a crumb the server refused so the next call re-handshakes.
func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

// get performs a GET against path with query and returns the response for the
// caller to decode. The body is closed on error.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	if err := statusError(res); err != nil {
		res.Body.Close()
		if res.StatusCode == http.StatusUnauthorized {
			c.resetCrumb()
		}
		return nil, err
	}
	return res, nil
}

func statusError(res *http.Response) error {
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("unauthorized")
	case http.StatusNotFound:
		return fmt.Errorf("not found")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited")
	default:
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
}

// apiError is the error object Yahoo embeds in otherwise successful envelopes.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}
