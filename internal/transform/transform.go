// Package transform turns raw provider records into typed, per-domain rows.
//
// Every function is pure: the same input always yields the same rows, and no
// function touches the network or the cache. A record that lacks the fields
// its domain requires is dropped, never reported as an error. Each output
// holds at most one row per symbol, first occurrence wins.
package transform

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"marketdash/internal/provider"
)

// NA is shown in place of a value the provider did not report.
const NA = "N/A"

// uniq returns symbols trimmed and de-duplicated, preserving order.
func uniq(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// literal prints f without trailing zeros, the way a dynamic language would
// echo the provider's number back.
func literal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// percent renders a fraction such as 0.1234 as "12.34%".
func percent(m provider.Info, key string) string {
	f, ok := provider.Float(m, key)
	if !ok {
		return NA
	}
	return decimal.NewFromFloat(f).Shift(2).StringFixed(2) + "%"
}

// dollars renders a price as "$412.3".
func dollars(m provider.Info, key string) string {
	f, ok := provider.Float(m, key)
	if !ok {
		return NA
	}
	return "$" + literal(f)
}

func stringOr(m map[string]any, key, fallback string) string {
	if s, ok := provider.String(m, key); ok {
		return s
	}
	return fallback
}

func floatPtr(m map[string]any, key string) *float64 {
	f, ok := provider.Float(m, key)
	if !ok {
		return nil
	}
	return &f
}
