package transform

import (
	"github.com/shopspring/decimal"

	"marketdash/internal/provider"
)

// TargetPE is the price to earnings multiple a fairly valued stock trades at.
const TargetPE = 15

var targetPE = decimal.NewFromInt(TargetPE)

// EquityRow compares a stock's price with its earnings based fair value.
type EquityRow struct {
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Industry    string   `json:"industry"`
	Price       float64  `json:"price"`
	EPS         float64  `json:"eps"`
	PE          *float64 `json:"pe"`
	FairValue   float64  `json:"fair_value"`
	Underpriced bool     `json:"underpriced"`
	PriceGapPct float64  `json:"price_gap_pct"`
}

// Valuation computes the fair value, the underpriced flag and the price gap
// for one price and trailing EPS. The gap is rounded to two decimals and is 0
// when the price is 0.
func Valuation(price, eps float64) (fair float64, underpriced bool, gapPct float64) {
	p := decimal.NewFromFloat(price)
	f := decimal.NewFromFloat(eps).Mul(targetPE)
	fair = f.InexactFloat64()
	underpriced = p.LessThan(f)
	if !p.IsZero() {
		gapPct = f.Sub(p).Div(p).Shift(2).Round(2).InexactFloat64()
	}
	return fair, underpriced, gapPct
}

// Equities values every quote that reports both currentPrice and trailingEps.
// Quotes missing either are left out.
func Equities(quotes []provider.Quote) []EquityRow {
	rows := make([]EquityRow, 0, len(quotes))
	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if _, dup := seen[q.Symbol]; dup {
			continue
		}
		price, ok := provider.Float(q.Info, "currentPrice")
		if !ok {
			continue
		}
		eps, ok := provider.Float(q.Info, "trailingEps")
		if !ok {
			continue
		}
		seen[q.Symbol] = struct{}{}

		fair, under, gap := Valuation(price, eps)
		rows = append(rows, EquityRow{
			Symbol:      q.Symbol,
			Name:        stringOr(q.Info, "shortName", NA),
			Industry:    stringOr(q.Info, "industry", NA),
			Price:       price,
			EPS:         eps,
			PE:          floatPtr(q.Info, "trailingPE"),
			FairValue:   fair,
			Underpriced: under,
			PriceGapPct: gap,
		})
	}
	return rows
}
