package transform

import (
	"math"
	"time"

	"marketdash/internal/provider"
)

// Commodity describes one futures contract of the catalogue.
type Commodity struct {
	Ticker string `yaml:"ticker" json:"ticker"`
	Name   string `yaml:"name" json:"name"`
	Unit   string `yaml:"unit" json:"unit"`
}

// Catalog is an ordered list of known commodities.
type Catalog []Commodity

// Find returns the entry for ticker.
func (c Catalog) Find(ticker string) (Commodity, bool) {
	for _, e := range c {
		if e.Ticker == ticker {
			return e, true
		}
	}
	return Commodity{}, false
}

// Tickers lists the catalogue tickers in order.
func (c Catalog) Tickers() []string {
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Ticker
	}
	return out
}

// describe falls back to the bare ticker for symbols outside the catalogue.
func (c Catalog) describe(ticker string) Commodity {
	if e, ok := c.Find(ticker); ok {
		return e
	}
	return Commodity{Ticker: ticker, Name: ticker}
}

// CommodityRow is the latest move of one commodity.
type CommodityRow struct {
	Name      string  `json:"name"`
	Ticker    string  `json:"ticker"`
	Unit      string  `json:"unit"`
	LastClose float64 `json:"last_close"`
	ChangePct float64 `json:"change_pct"`
}

// Point is one observation of a chart line.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Line is the close price history of one commodity.
type Line struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// closes drops bars whose close is missing or not finite.
func closes(bars []provider.Bar) []Point {
	out := make([]Point, 0, len(bars))
	for _, b := range bars {
		if b.Close == nil || math.IsNaN(*b.Close) || math.IsInf(*b.Close, 0) {
			continue
		}
		out = append(out, Point{Time: b.Time, Value: *b.Close})
	}
	return out
}

// Commodities computes, for each selected symbol, the percentage change between
// its two most recent valid closes. Symbols with fewer than two valid closes, or
// a previous close of zero, yield no row.
func Commodities(series provider.Series, catalog Catalog, symbols []string) []CommodityRow {
	rows := make([]CommodityRow, 0, len(symbols))
	for _, sym := range uniq(symbols) {
		pts := closes(series[sym])
		if len(pts) < 2 {
			continue
		}
		last, prev := pts[len(pts)-1].Value, pts[len(pts)-2].Value
		if prev == 0 {
			continue
		}
		info := catalog.describe(sym)
		rows = append(rows, CommodityRow{
			Name:      info.Name,
			Ticker:    sym,
			Unit:      info.Unit,
			LastClose: last,
			ChangePct: (last - prev) / prev * 100,
		})
	}
	return rows
}

// ChartSeries returns one line per selected symbol that has at least one valid close.
func ChartSeries(series provider.Series, catalog Catalog, symbols []string) []Line {
	lines := make([]Line, 0, len(symbols))
	for _, sym := range uniq(symbols) {
		pts := closes(series[sym])
		if len(pts) == 0 {
			continue
		}
		lines = append(lines, Line{Ticker: sym, Name: catalog.describe(sym).Name, Points: pts})
	}
	return lines
}
