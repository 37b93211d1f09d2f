// Package nasdaqdl is a client for Nasdaq Data Link datatables.
package nasdaqdl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const baseURL = "https://data.nasdaq.com/api/v3"

// maxPages bounds cursor pagination.
const maxPages = 100

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=nasdaqdl_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Nasdaq Data Link datatables client.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	query      url.Values
}

// Option is a configuration option for the client.
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

// New creates a client. Without a key the API serves only free tables at a
// low rate limit.
func New(key string, options ...Option) (*Client, error) {
	c := &Client{baseURL: baseURL, httpClient: http.DefaultClient, query: url.Values{}}
	if key != "" {
		c.query.Set("api_key", key)
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// TableQuery filters a datatable. Zero values are not sent.
type TableQuery struct {
	Columns []string
	Tickers []string
	From    time.Time
	To      time.Time
}

// Column describes one datatable column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Frame is a datatable result: column metadata plus rows of untyped cells.
type Frame struct {
	Columns []Column
	Rows    [][]any
}

// Index returns the position of the named column or -1.
func (f Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// SortBy orders rows ascending by the named column, comparing strings lexically
// (dates are ISO formatted) and numbers numerically. Unknown columns are a no-op.
func (f Frame) SortBy(name string) {
	i := f.Index(name)
	if i < 0 {
		return
	}
	sort.SliceStable(f.Rows, func(a, b int) bool {
		return less(f.Rows[a][i], f.Rows[b][i])
	})
}

func less(a, b any) bool {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x < y
	case float64:
		y, ok := b.(float64)
		return ok && x < y
	}
	return false
}

type tableResponse struct {
	Datatable struct {
		Data    [][]any  `json:"data"`
		Columns []Column `json:"columns"`
	} `json:"datatable"`
	Meta struct {
		NextCursorID *string `json:"next_cursor_id"`
	} `json:"meta"`
	QuandlError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"quandl_error"`
}

// Table downloads every page of datatable code (e.g. "WIKI/PRICES").
func (c *Client) Table(ctx context.Context, code string, q TableQuery) (Frame, error) {
	query := url.Values{}
	for k, v := range c.query {
		query[k] = v
	}
	if len(q.Columns) > 0 {
		query.Set("qopts.columns", strings.Join(q.Columns, ","))
	}
	if len(q.Tickers) > 0 {
		query.Set("ticker", strings.Join(q.Tickers, ","))
	}
	if !q.From.IsZero() {
		query.Set("date.gte", q.From.Format(time.DateOnly))
	}
	if !q.To.IsZero() {
		query.Set("date.lte", q.To.Format(time.DateOnly))
	}

	var frame Frame
	for page := 0; page < maxPages; page++ {
		body, err := c.page(ctx, code, query)
		if err != nil {
			return Frame{}, err
		}
		if frame.Columns == nil {
			frame.Columns = body.Datatable.Columns
		}
		frame.Rows = append(frame.Rows, body.Datatable.Data...)
		if body.Meta.NextCursorID == nil || *body.Meta.NextCursorID == "" {
			return frame, nil
		}
		query.Set("qopts.cursor_id", *body.Meta.NextCursorID)
	}
	return frame, fmt.Errorf("more than %d pages", maxPages)
}

func (c *Client) page(ctx context.Context, code string, query url.Values) (*tableResponse, error) {
	u := fmt.Sprintf("%s/datatables/%s.json?%s", c.baseURL, code, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	var body tableResponse
	decErr := json.NewDecoder(res.Body).Decode(&body)
	if body.QuandlError != nil {
		return nil, fmt.Errorf("%s: %s", body.QuandlError.Code, body.QuandlError.Message)
	}
	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request for %s", code)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")
	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
	if decErr != nil {
		return nil, fmt.Errorf("decoding datatable response: %w", decErr)
	}
	return &body, nil
}
