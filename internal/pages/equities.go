package pages

import (
	"context"
	"time"

	"marketdash/internal/fetch"
	"marketdash/internal/present"
	"marketdash/internal/provider"
	"marketdash/internal/transform"
)

var equityColumns = []string{
	"Symbol", "Name", "Sector", "Date Added", "Industry", "Current Price", "EPS",
	"P/E Ratio", "Fair Market Value", "Underpriced", "Price Gap (%)",
}

type equityInput struct {
	Limit int `validate:"min=0"`
}

// Equities values every S&P 500 member at a P/E of 15 and flags those trading
// below that fair value.
//
// Parameters: limit (first n constituents, 0 for all), underpriced (only
// underpriced rows), sort, order.
type Equities struct {
	fetcher *fetch.Fetcher
}

// NewEquities creates the page.
func NewEquities(f *fetch.Fetcher) *Equities {
	return &Equities{fetcher: f}
}

func (p *Equities) Label() string { return "Underpriced Stocks" }

func (p *Equities) Refresh() { p.fetcher.Refresh(fetch.DomainEquities) }

func (p *Equities) Render(ctx context.Context, req Request) (present.View, error) {
	limit, err := req.Int("limit", 0)
	if err != nil {
		return present.View{}, err
	}
	if err := check(equityInput{Limit: limit}); err != nil {
		return present.View{}, err
	}
	onlyUnder, err := req.Bool("underpriced")
	if err != nil {
		return present.View{}, err
	}
	ord := req.ordering()
	if err := ord.check(equityColumns); err != nil {
		return present.View{}, err
	}

	v := present.View{Page: p.Label(), Title: "S&P 500 Stock Analysis"}
	constituents := p.fetcher.Constituents(ctx, &v.Notices)
	if limit > 0 && limit < len(constituents) {
		constituents = constituents[:limit]
	}
	if len(constituents) == 0 {
		v.State = present.StateError
		v.Notices.Error("Unable to load stock tickers. Please check API settings and network connection.")
		return v, nil
	}
	v.Notices.Info("Loaded tickers for S&P 500 companies.")

	bySymbol := make(map[string]provider.Constituent, len(constituents))
	tickers := make([]string, 0, len(constituents))
	for _, c := range constituents {
		bySymbol[c.Symbol] = c
		tickers = append(tickers, c.Symbol)
	}

	rows := transform.Equities(p.fetcher.Equities(ctx, &v.Notices, tickers))

	g := present.Grid{Columns: equityColumns}
	for _, r := range rows {
		if onlyUnder && !r.Underpriced {
			continue
		}
		c := bySymbol[r.Symbol]
		added := ""
		if !c.DateAdded.IsZero() {
			added = c.DateAdded.Format(time.DateOnly)
		}
		g.Rows = append(g.Rows, present.GridRow{
			Cells: []present.Cell{
				present.Text(r.Symbol),
				present.Text(r.Name),
				present.Text(c.Sector),
				present.Text(added),
				present.Text(r.Industry),
				present.Number(r.Price, 2),
				present.Number(r.EPS, 2),
				present.Optional(r.PE, "inf", func(f float64) present.Cell { return present.Number(f, 2) }),
				present.Number(r.FairValue, 2),
				present.Text(yesNo(r.Underpriced)),
				present.Number(r.PriceGapPct, 2),
			},
			Highlight: r.Underpriced,
		})
	}
	g = ord.apply(g)
	v.Grid = &g
	return finish(v, "No data found for the provided tickers."), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
