// Package fetch loads raw market data for each dashboard domain through the
// result cache. Provider errors stop here: callers get an empty result and a
// message on their Warner.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketdash/internal/cache"
	"marketdash/internal/provider"
)

// Cache operations, one per provider call shape.
const (
	OpCommodities  = "commodities.history"
	OpCryptos      = "cryptos.markets"
	OpETFInfo      = "etfs.info"
	OpETFOptions   = "etfs.options"
	OpConstituents = "equities.constituents"
	OpEquities     = "equities.info"
)

// Domain groups the cache operations a page depends on.
type Domain string

const (
	DomainCommodities Domain = "commodities"
	DomainCryptos     Domain = "cryptos"
	DomainETFs        Domain = "etfs"
	DomainEquities    Domain = "equities"
)

var domainOps = map[Domain][]string{
	DomainCommodities: {OpCommodities},
	DomainCryptos:     {OpCryptos},
	DomainETFs:        {OpETFInfo, OpETFOptions},
	DomainEquities:    {OpConstituents, OpEquities},
}

// Ops returns the cache operations of d.
func (d Domain) Ops() []string {
	return domainOps[d]
}

// Warner receives user facing messages raised while fetching.
type Warner interface {
	Warn(msg string)
	Error(msg string)
}

// Discard drops every message.
var Discard Warner = discard{}

type discard struct{}

func (discard) Warn(string)  {}
func (discard) Error(string) {}

// Sources are the provider clients behind each domain. A nil source makes its
// domain fail like an unreachable provider.
type Sources struct {
	History      provider.HistorySource
	Info         provider.InfoSource
	Options      provider.OptionsSource
	Markets      provider.MarketsSource
	Constituents provider.ConstituentSource
}

// Policies holds the cache policy of every operation.
type Policies map[string]cache.Policy

const defaultOptionsTTL = 300 * time.Second

// DefaultPolicies keeps everything for the session except option chains,
// which go stale after five minutes.
func DefaultPolicies() Policies {
	return Policies{OpETFOptions: cache.TTL(defaultOptionsTTL)}
}

func (p Policies) of(op string) cache.Policy {
	if pol, ok := p[op]; ok {
		return pol
	}
	return cache.Session
}

// Fetcher is safe for concurrent use.
type Fetcher struct {
	src      Sources
	cache    *cache.Cache
	policies Policies
	log      zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPolicies replaces the default cache policies.
func WithPolicies(p Policies) Option {
	return func(f *Fetcher) {
		f.policies = p
	}
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.log = l
	}
}

// New creates a Fetcher reading through c.
func New(src Sources, c *cache.Cache, options ...Option) *Fetcher {
	f := &Fetcher{src: src, cache: c, policies: DefaultPolicies(), log: zerolog.Nop()}
	for _, option := range options {
		option(f)
	}
	return f
}

// Refresh drops the cached results of d and returns how many entries went.
func (f *Fetcher) Refresh(d Domain) int {
	n := 0
	for _, op := range d.Ops() {
		n += f.cache.Invalidate(op)
	}
	f.log.Debug().Str("domain", string(d)).Int("entries", n).Msg("cache invalidated")
	return n
}

// CacheStats exposes the underlying cache counters.
func (f *Fetcher) CacheStats() cache.Stats {
	return f.cache.Stats()
}

func (f *Fetcher) failed(err error, op, symbol string) {
	ev := f.log.Warn().Err(err).Str("op", op)
	if symbol != "" {
		ev = ev.Str("symbol", symbol)
	}
	ev.Msg("provider call failed")
}

var errNoSource = errors.New("no provider configured")

// Commodities loads the close series of every symbol, one provider call per
// symbol. Symbols that fail are reported on w and left out.
func (f *Fetcher) Commodities(ctx context.Context, w Warner, symbols []string, period, interval string) provider.Series {
	out := make(provider.Series, len(symbols))
	for _, sym := range Symbols(symbols) {
		if ctx.Err() != nil {
			w.Warn(fmt.Sprintf("Stopped fetching commodity data: %v", ctx.Err()))
			break
		}
		bars, _, err := cache.Get(ctx, f.cache, cache.NewKey(OpCommodities, sym, period, interval), f.policies.of(OpCommodities),
			func(ctx context.Context) ([]provider.Bar, error) {
				if f.src.History == nil {
					return nil, errNoSource
				}
				return f.src.History.History(ctx, sym, period, interval)
			})
		if err != nil {
			f.failed(err, OpCommodities, sym)
			w.Warn(fmt.Sprintf("Failed to fetch commodity data for %s: %v", sym, err))
			continue
		}
		out[sym] = bars
	}
	return out
}

// Cryptos loads the topN assets by market capitalization.
func (f *Fetcher) Cryptos(ctx context.Context, w Warner, topN int) []provider.Market {
	markets, _, err := cache.Get(ctx, f.cache, cache.NewKey(OpCryptos, strconv.Itoa(topN)), f.policies.of(OpCryptos),
		func(ctx context.Context) ([]provider.Market, error) {
			if f.src.Markets == nil {
				return nil, errNoSource
			}
			return f.src.Markets.TopMarkets(ctx, topN)
		})
	if err != nil {
		f.failed(err, OpCryptos, "")
		w.Warn(fmt.Sprintf("Failed to fetch cryptocurrency data: %v", err))
		return nil
	}
	return markets
}

// ETFs loads the summary and the options chain of each fund. A fund whose
// summary fails is left out with a warning; a failed options chain only
// empties its options.
func (f *Fetcher) ETFs(ctx context.Context, w Warner, symbols []string) []provider.Quote {
	out := make([]provider.Quote, 0, len(symbols))
	for _, sym := range symbols {
		if ctx.Err() != nil {
			w.Warn(fmt.Sprintf("Stopped fetching ETF data: %v", ctx.Err()))
			break
		}
		info, err := f.info(ctx, OpETFInfo, sym)
		if err != nil {
			f.failed(err, OpETFInfo, sym)
			w.Warn(fmt.Sprintf("Failed to fetch data for %s: %v", sym, err))
			continue
		}
		opts, _, err := cache.Get(ctx, f.cache, cache.NewKey(OpETFOptions, sym), f.policies.of(OpETFOptions),
			func(ctx context.Context) ([]provider.OptionExpiry, error) {
				if f.src.Options == nil {
					return nil, errNoSource
				}
				return f.src.Options.Options(ctx, sym)
			})
		if err != nil {
			f.failed(err, OpETFOptions, sym)
			w.Error(fmt.Sprintf("Could not fetch options data for %s: %v", sym, err))
			opts = nil
		}
		out = append(out, provider.Quote{Symbol: sym, Info: info, Options: opts})
	}
	return out
}

// Constituents loads the current S&P 500 membership.
func (f *Fetcher) Constituents(ctx context.Context, w Warner) []provider.Constituent {
	cs, _, err := cache.Get(ctx, f.cache, cache.NewKey(OpConstituents), f.policies.of(OpConstituents),
		func(ctx context.Context) ([]provider.Constituent, error) {
			if f.src.Constituents == nil {
				return nil, errNoSource
			}
			return f.src.Constituents.Constituents(ctx)
		})
	if err != nil {
		f.failed(err, OpConstituents, "")
		w.Error(fmt.Sprintf("Request failed: %v", err))
		return nil
	}
	return cs
}

// Equities loads the summary of each stock, leaving out those that fail.
func (f *Fetcher) Equities(ctx context.Context, w Warner, symbols []string) []provider.Quote {
	out := make([]provider.Quote, 0, len(symbols))
	for _, sym := range symbols {
		if ctx.Err() != nil {
			w.Warn(fmt.Sprintf("Stopped fetching stock data after %d of %d symbols: %v", len(out), len(symbols), ctx.Err()))
			break
		}
		info, err := f.info(ctx, OpEquities, sym)
		if err != nil {
			f.log.Warn().Err(err).Str("op", OpEquities).Str("symbol", sym).Msgf("Failed to fetch data for %s", sym)
			continue
		}
		out = append(out, provider.Quote{Symbol: sym, Info: info})
	}
	return out
}

func (f *Fetcher) info(ctx context.Context, op, sym string) (provider.Info, error) {
	info, _, err := cache.Get(ctx, f.cache, cache.NewKey(op, sym), f.policies.of(op),
		func(ctx context.Context) (provider.Info, error) {
			if f.src.Info == nil {
				return nil, errNoSource
			}
			return f.src.Info.Info(ctx, sym)
		})
	return info, err
}

// Symbols normalizes a user supplied list: trimmed, upper-cased, blanks and
// repeats dropped, order kept.
func Symbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
