// Package provider holds the raw record shapes returned by the market data
// clients and the narrow interfaces the fetch layer consumes.
package provider

import (
	"context"
	"math"
	"net/http"
	"time"
)

// HTTPClient describes an HTTP client. *httpx.Client and *http.Client satisfy it.
//
//go:generate mockgen -package=providermock -destination=providermock/mock_provider.go -source=provider.go
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Bar is one point of a close price series. Close is nil when the provider
// reported no value for that timestamp.
type Bar struct {
	Time  time.Time `json:"time"`
	Close *float64  `json:"close"`
}

// Series maps a symbol to its bars, oldest first.
type Series map[string][]Bar

// Info is a flat, untyped quote summary keyed like yfinance's info dict
// (currentPrice, trailingEps, longName, ...). Values are float64, string or bool.
type Info map[string]any

// OptionExpiry summarises one expiration of an options chain.
type OptionExpiry struct {
	Expiration time.Time `json:"expiration"`
	Puts       int       `json:"puts"`
	Calls      int       `json:"calls"`
}

// Quote is the fetched summary of one symbol. Options is only filled for
// instruments whose option chains were requested.
type Quote struct {
	Symbol  string         `json:"symbol"`
	Info    Info           `json:"info"`
	Options []OptionExpiry `json:"options,omitempty"`
}

// Market is one element of a crypto markets listing, kept untyped.
type Market map[string]any

// Constituent is one row of an index membership table.
type Constituent struct {
	Symbol       string    `json:"symbol"`
	Security     string    `json:"security"`
	Sector       string    `json:"sector"`
	SubIndustry  string    `json:"sub_industry"`
	Headquarters string    `json:"headquarters"`
	DateAdded    time.Time `json:"date_added"`
	CIK          string    `json:"cik"`
	Founded      string    `json:"founded"`
}

// HistorySource returns close series for one symbol.
type HistorySource interface {
	History(ctx context.Context, symbol, period, interval string) ([]Bar, error)
}

// InfoSource returns the quote summary of one symbol.
type InfoSource interface {
	Info(ctx context.Context, symbol string) (Info, error)
}

// OptionsSource lists expirations and counts contracts per expiration.
type OptionsSource interface {
	Options(ctx context.Context, symbol string) ([]OptionExpiry, error)
}

// MarketsSource lists the top-n crypto assets by market capitalization.
type MarketsSource interface {
	TopMarkets(ctx context.Context, n int) ([]Market, error)
}

// ConstituentSource returns the current members of an equity index.
type ConstituentSource interface {
	Constituents(ctx context.Context) ([]Constituent, error)
}

// Float reads a numeric value from an untyped mapping. It returns false when the
// key is missing, null, or not a finite number.
func Float(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case interface{ Float64() (float64, error) }:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String reads a non-empty string value from an untyped mapping.
func String(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
