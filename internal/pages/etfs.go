package pages

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"marketdash/internal/fetch"
	"marketdash/internal/present"
	"marketdash/internal/transform"
)

var etfColumns = []string{
	"Symbol", "Name", "Latest Price", "52W High", "52W Low",
	"1 Year Return", "3 Year Return", "5 Year Return",
	"Total Assets", "Dividend Yield", "Average Volume", "Options Detail",
}

// ETFs summarizes the funds listed in a watchlist file, with their option chains.
//
// Parameters: sort, order.
type ETFs struct {
	fetcher   *fetch.Fetcher
	watchlist string
}

// NewETFs creates the page reading symbols from the watchlist at path.
func NewETFs(f *fetch.Fetcher, path string) *ETFs {
	return &ETFs{fetcher: f, watchlist: path}
}

func (p *ETFs) Label() string { return "ETFs Value" }

func (p *ETFs) Refresh() { p.fetcher.Refresh(fetch.DomainETFs) }

func (p *ETFs) Render(ctx context.Context, req Request) (present.View, error) {
	ord := req.ordering()
	if err := ord.check(etfColumns); err != nil {
		return present.View{}, err
	}

	v := present.View{Page: p.Label(), Title: "ETF Analysis"}
	symbols, err := fetch.Watchlist(p.watchlist)
	if errors.Is(err, fetch.ErrWatchlistNotFound) {
		v.State = present.StateError
		v.Notices.Error(fmt.Sprintf("ETF symbols file not found. Please ensure '%s' is available in your directory.", filepath.Base(p.watchlist)))
		return v, nil
	}
	if err != nil {
		v.State = present.StateError
		v.Notices.Error(fmt.Sprintf("Could not read ETF symbols: %v", err))
		return v, nil
	}

	rows := transform.ETFs(p.fetcher.ETFs(ctx, &v.Notices, symbols))

	g := present.Grid{Columns: etfColumns}
	for _, r := range rows {
		g.Rows = append(g.Rows, present.GridRow{Cells: []present.Cell{
			present.Text(r.Symbol),
			present.Text(r.Name),
			figure(r.LatestPrice),
			figure(r.High52W),
			figure(r.Low52W),
			figure(r.Return1Y),
			figure(r.Return3Y),
			figure(r.Return5Y),
			present.Labeled(r.TotalAssets, r.Assets),
			figure(r.DividendYield),
			present.Optional(r.AverageVolume, present.NA, present.Count),
			present.Text(r.Options),
		}})
	}
	g = ord.apply(g)
	v.Grid = &g
	return finish(v, "No data available for the listed ETFs."), nil
}

// figure keeps a formatted "$12.5" or "3.40%" as shown, with its number for sorting.
func figure(text string) present.Cell {
	f, err := strconv.ParseFloat(strings.Trim(text, "$%"), 64)
	if err != nil {
		return present.Text(text)
	}
	return present.Labeled(text, &f)
}
