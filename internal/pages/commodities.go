package pages

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"

	"marketdash/internal/fetch"
	"marketdash/internal/present"
	"marketdash/internal/transform"
)

//go:embed commodities.yaml
var catalogYAML []byte

// LoadCatalog decodes the built-in commodity catalogue.
func LoadCatalog() (transform.Catalog, error) {
	var c transform.Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("decoding commodity catalogue: %w", err)
	}
	return c, nil
}

var commodityColumns = []string{"Commodity", "Ticker", "Unit", "Last Close", "Change (%)"}

type commodityInput struct {
	Period   string   `validate:"oneof=1d 5d 1mo 3mo 6mo 1y"`
	Interval string   `validate:"oneof=1d 5d 1wk 1mo"`
	Symbols  []string `validate:"dive,required"`
}

// Commodities shows the latest move and the price history of selected futures.
//
// Parameters: period (default 3mo), interval (default 1d), symbols (default
// the whole catalogue; sent empty it selects nothing), sort, order.
type Commodities struct {
	fetcher *fetch.Fetcher
	catalog transform.Catalog
}

// NewCommodities creates the page over catalog.
func NewCommodities(f *fetch.Fetcher, catalog transform.Catalog) *Commodities {
	return &Commodities{fetcher: f, catalog: catalog}
}

func (p *Commodities) Label() string { return "Commodities" }

func (p *Commodities) Refresh() { p.fetcher.Refresh(fetch.DomainCommodities) }

func (p *Commodities) Render(ctx context.Context, req Request) (present.View, error) {
	in := commodityInput{Period: "3mo", Interval: "1d", Symbols: p.catalog.Tickers()}
	if v := req.Get("period"); v != "" {
		in.Period = v
	}
	if v := req.Get("interval"); v != "" {
		in.Interval = v
	}
	if req.Has("symbols") {
		in.Symbols = fetch.Symbols(req.List("symbols"))
	}
	if err := check(in); err != nil {
		return present.View{}, err
	}
	ord := req.ordering()
	if err := ord.check(commodityColumns); err != nil {
		return present.View{}, err
	}

	v := present.View{Page: p.Label(), Title: "Commodity Dashboard"}
	if len(in.Symbols) == 0 {
		v.State = present.StatePrompt
		v.Notices.Warn("Please select at least one commodity to display.")
		return v, nil
	}

	series := p.fetcher.Commodities(ctx, &v.Notices, in.Symbols, in.Period, in.Interval)
	rows := transform.Commodities(series, p.catalog, in.Symbols)

	g := present.Grid{Columns: commodityColumns}
	for _, r := range rows {
		g.Rows = append(g.Rows, present.GridRow{Cells: []present.Cell{
			present.Text(r.Name),
			present.Text(r.Ticker),
			present.Text(r.Unit),
			present.Number(r.LastClose, 2),
			present.Number(r.ChangePct, 2),
		}})
	}
	g = ord.apply(g)
	v.Grid = &g
	v = finish(v, "No data available for the selected commodities or date range.")
	if v.State != present.StateSuccess {
		return v, nil
	}

	for _, line := range transform.ChartSeries(series, p.catalog, in.Symbols) {
		pts := make([]present.Point, len(line.Points))
		for i, pt := range line.Points {
			pts[i] = present.Point{Time: pt.Time, Value: pt.Value}
		}
		v.Charts = append(v.Charts, present.PriceChart(line.Name, pts))
	}
	return v, nil
}
