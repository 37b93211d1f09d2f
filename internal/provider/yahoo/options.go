package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"marketdash/internal/provider"
)

type optionContracts struct {
	ExpirationDate int64             `json:"expirationDate"`
	Calls          []json.RawMessage `json:"calls"`
	Puts           []json.RawMessage `json:"puts"`
}

type optionChain struct {
	ExpirationDates []int64           `json:"expirationDates"`
	Options         []optionContracts `json:"options"`
}

type optionChainResponse struct {
	OptionChain struct {
		Result []optionChain `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"optionChain"`
}

// Options returns the put and call contract counts of every listed expiration
// of symbol, nearest first. The first response already carries the nearest
// expiration; every other expiration costs one more request.
func (c *Client) Options(ctx context.Context, symbol string) ([]provider.OptionExpiry, error) {
	first, err := c.optionChain(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, nil
	}

	known := make(map[int64]provider.OptionExpiry, len(first.Options))
	for _, o := range first.Options {
		known[o.ExpirationDate] = expiry(o.ExpirationDate, len(o.Puts), len(o.Calls))
	}

	out := make([]provider.OptionExpiry, 0, len(first.ExpirationDates))
	for _, date := range first.ExpirationDates {
		if e, ok := known[date]; ok {
			out = append(out, e)
			continue
		}
		chain, err := c.optionChain(ctx, symbol, date)
		if err != nil {
			return nil, fmt.Errorf("expiration %s: %w", time.Unix(date, 0).UTC().Format(time.DateOnly), err)
		}
		e := expiry(date, 0, 0)
		if chain != nil && len(chain.Options) > 0 {
			e = expiry(date, len(chain.Options[0].Puts), len(chain.Options[0].Calls))
		}
		out = append(out, e)
	}
	return out, nil
}

// optionChain fetches the chain of one expiration; date 0 asks for the nearest.
// It returns nil when the symbol has no listed options.
func (c *Client) optionChain(ctx context.Context, symbol string, date int64) (*optionChain, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("crumb", crumb)
	if date > 0 {
		query.Set("date", strconv.FormatInt(date, 10))
	}

	res, err := c.get(ctx, "/v7/finance/options/"+url.PathEscape(Symbol(symbol)), query)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body optionChainResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding options response: %w", err)
	}
	if body.OptionChain.Error != nil {
		return nil, body.OptionChain.Error
	}
	if len(body.OptionChain.Result) == 0 {
		return nil, nil
	}
	return &body.OptionChain.Result[0], nil
}

func expiry(date int64, puts, calls int) provider.OptionExpiry {
	return provider.OptionExpiry{Expiration: time.Unix(date, 0).UTC(), Puts: puts, Calls: calls}
}
