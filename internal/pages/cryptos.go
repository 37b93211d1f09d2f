package pages

import (
	"context"
	"fmt"
	"strconv"

	"marketdash/internal/fetch"
	"marketdash/internal/present"
	"marketdash/internal/transform"
)

var cryptoColumns = []string{"Rank", "Symbol", "Name", "Current Price (USD)", "Previous Day Close (USD)", "24h Change (%)", "7d Change (%)"}

type cryptoInput struct {
	Top int `validate:"min=1,max=5000"`
}

// Cryptos ranks the top assets by market capitalization and highlights large
// daily gains.
//
// Parameters: top (default from config), sort, order.
type Cryptos struct {
	fetcher *fetch.Fetcher
	topN    int
}

// NewCryptos creates the page listing topN assets by default.
func NewCryptos(f *fetch.Fetcher, topN int) *Cryptos {
	return &Cryptos{fetcher: f, topN: topN}
}

func (p *Cryptos) Label() string { return "Cryptos" }

func (p *Cryptos) Refresh() { p.fetcher.Refresh(fetch.DomainCryptos) }

func (p *Cryptos) Render(ctx context.Context, req Request) (present.View, error) {
	top, err := req.Int("top", p.topN)
	if err != nil {
		return present.View{}, err
	}
	in := cryptoInput{Top: top}
	if err := check(in); err != nil {
		return present.View{}, err
	}
	ord := req.ordering()
	if err := ord.check(cryptoColumns); err != nil {
		return present.View{}, err
	}

	v := present.View{Page: p.Label(), Title: fmt.Sprintf("Top-%d Cryptocurrencies by Market Capitalization", in.Top)}
	rows := transform.Cryptos(p.fetcher.Cryptos(ctx, &v.Notices, in.Top))

	g := present.Grid{Columns: cryptoColumns}
	price := func(f float64) present.Cell { return present.Number(f, pricePrecision(f)) }
	for _, r := range rows {
		g.Rows = append(g.Rows, present.GridRow{
			Cells: []present.Cell{
				present.Labeled(strconv.Itoa(r.Rank), ptr(float64(r.Rank))),
				present.Text(r.Symbol),
				present.Text(r.Name),
				present.Optional(r.Price, present.NA, price),
				present.Optional(r.Previous, present.NA, price),
				present.Number(r.Change24h, 2),
				present.Number(r.Change7d, 2),
			},
			Highlight: r.Hot,
		})
	}
	g = ord.apply(g)
	v.Grid = &g
	return finish(v, "No cryptocurrency data available."), nil
}

func ptr(f float64) *float64 { return &f }

// pricePrecision keeps sub-dollar coins readable.
func pricePrecision(f float64) int {
	if f != 0 && f > -1 && f < 1 {
		return 6
	}
	return 2
}
