package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketdash/internal/provider"
)

var (
	billion = decimal.New(1, 9)
	million = decimal.New(1, 6)
)

// FormatMagnitude abbreviates billions and millions with two decimals and a B
// or M suffix. Smaller values are printed as is.
func FormatMagnitude(v float64) string {
	d := decimal.NewFromFloat(v)
	switch {
	case d.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + "B"
	case d.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	}
	return literal(v)
}

// ETFRow is the display summary of one fund. Text fields hold N/A when the
// provider did not report the underlying value.
type ETFRow struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	LatestPrice   string   `json:"latest_price"`
	High52W       string   `json:"high_52w"`
	Low52W        string   `json:"low_52w"`
	Return1Y      string   `json:"return_1y"`
	Return3Y      string   `json:"return_3y"`
	Return5Y      string   `json:"return_5y"`
	TotalAssets   string   `json:"total_assets"`
	Assets        *float64 `json:"-"`
	DividendYield string   `json:"dividend_yield"`
	AverageVolume *float64 `json:"average_volume"`
	Options       string   `json:"options"`
}

// OptionsDetail joins the per-expiration contract counts into one string.
func OptionsDetail(exps []provider.OptionExpiry) string {
	parts := make([]string, len(exps))
	for i, e := range exps {
		parts[i] = fmt.Sprintf("Exp: %s, Puts: %d, Calls: %d", e.Expiration.UTC().Format(time.DateOnly), e.Puts, e.Calls)
	}
	return strings.Join(parts, "; ")
}

// ETFs builds one row per fetched fund.
func ETFs(quotes []provider.Quote) []ETFRow {
	rows := make([]ETFRow, 0, len(quotes))
	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if _, dup := seen[q.Symbol]; dup || q.Info == nil {
			continue
		}
		seen[q.Symbol] = struct{}{}

		info := q.Info
		row := ETFRow{
			Symbol:        q.Symbol,
			Name:          stringOr(info, "longName", NA),
			LatestPrice:   dollars(info, "previousClose"),
			High52W:       dollars(info, "fiftyTwoWeekHigh"),
			Low52W:        dollars(info, "fiftyTwoWeekLow"),
			Return1Y:      percent(info, "ytdReturn"),
			Return3Y:      percent(info, "threeYearAverageReturn"),
			Return5Y:      percent(info, "fiveYearAverageReturn"),
			TotalAssets:   NA,
			Assets:        floatPtr(info, "totalAssets"),
			DividendYield: percent(info, "yield"),
			AverageVolume: floatPtr(info, "averageVolume"),
			Options:       OptionsDetail(q.Options),
		}
		if row.Assets != nil {
			row.TotalAssets = FormatMagnitude(*row.Assets)
		}
		rows = append(rows, row)
	}
	return rows
}
