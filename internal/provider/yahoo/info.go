package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"marketdash/internal/provider"
)

// summaryModules are merged in order; the first module defining a key wins.
var summaryModules = []string{
	"price",
	"financialData",
	"summaryDetail",
	"defaultKeyStatistics",
	"assetProfile",
	"fundProfile",
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]any `json:"result"`
		Error  *apiError                   `json:"error"`
	} `json:"quoteSummary"`
}

// Info returns the quote summary of symbol flattened into a single mapping,
// e.g. {"currentPrice": 189.3, "trailingEps": 6.4, "longName": "..."}.
func (c *Client) Info(ctx context.Context, symbol string) (provider.Info, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("modules", strings.Join(summaryModules, ","))
	query.Set("crumb", crumb)

	res, err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(Symbol(symbol)), query)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var body summaryResponse
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding quoteSummary response: %w", err)
	}
	if body.QuoteSummary.Error != nil {
		return nil, body.QuoteSummary.Error
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no summary data for %s", symbol)
	}
	return flatten(body.QuoteSummary.Result[0]), nil
}

// flatten merges the summary modules into one mapping. Formatted values
// ({"raw": 1.2, "fmt": "1.20"}) collapse to their raw number; empty objects
// and nested structures are dropped.
func flatten(modules map[string]map[string]any) provider.Info {
	info := provider.Info{}
	for _, name := range summaryModules {
		for key, v := range modules[name] {
			if _, seen := info[key]; seen {
				continue
			}
			if val, ok := scalar(v); ok {
				info[key] = val
			}
		}
	}
	return info
}

func scalar(v any) (any, bool) {
	switch x := v.(type) {
	case string, bool:
		return x, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	case map[string]any:
		raw, ok := x["raw"]
		if !ok {
			return nil, false
		}
		return scalar(raw)
	default:
		return nil, false
	}
}
