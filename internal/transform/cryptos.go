package transform

import (
	"strings"

	"marketdash/internal/provider"
)

// HotChangePct is the 24h move at or above which a crypto row is highlighted.
const HotChangePct = 25

// CryptoRow is one asset of the market cap ranking.
type CryptoRow struct {
	Rank      int      `json:"rank"`
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Previous  *float64 `json:"previous"`
	Change24h float64  `json:"change_24h_pct"`
	Change7d  float64  `json:"change_7d_pct"`
	Hot       bool     `json:"hot"`
}

// Cryptos converts a markets listing, already ordered by market cap, into
// ranked rows. The previous day close is derived as price / (1 + change24h/100)
// and left nil when the price is missing or the change is -100%.
func Cryptos(markets []provider.Market) []CryptoRow {
	rows := make([]CryptoRow, 0, len(markets))
	seen := make(map[string]struct{}, len(markets))
	for _, m := range markets {
		sym := strings.ToUpper(stringOr(m, "symbol", ""))
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}

		row := CryptoRow{
			Rank:   len(rows) + 1,
			Symbol: sym,
			Name:   stringOr(m, "name", NA),
			Price:  floatPtr(m, "current_price"),
		}
		row.Change24h, _ = provider.Float(m, "price_change_percentage_24h_in_currency")
		row.Change7d, _ = provider.Float(m, "price_change_percentage_7d_in_currency")
		if row.Price != nil {
			if d := 1 + row.Change24h/100; d != 0 {
				prev := *row.Price / d
				row.Previous = &prev
			}
		}
		row.Hot = row.Change24h >= HotChangePct
		rows = append(rows, row)
	}
	return rows
}
