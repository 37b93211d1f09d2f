package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"marketdash/internal/provider"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// History returns the close series of symbol over period (range) sampled at
// interval, oldest first. Missing closes are kept as nil bars.
func (c *Client) History(ctx context.Context, symbol, period, interval string) ([]provider.Bar, error) {
	query := url.Values{}
	query.Set("range", period)
	query.Set("interval", interval)
	query.Set("includePrePost", "false")
	query.Set("events", "div,splits")

	res, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(Symbol(symbol)), query)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	if body.Chart.Error != nil {
		return nil, body.Chart.Error
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := body.Chart.Result[0]
	var closes []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	bars := make([]provider.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar := provider.Bar{Time: time.Unix(ts, 0).UTC()}
		if i < len(closes) {
			bar.Close = closes[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
