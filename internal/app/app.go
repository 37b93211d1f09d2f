// Package app wires configuration into providers, the fetcher and the page router.
package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"marketdash/internal/cache"
	"marketdash/internal/config"
	"marketdash/internal/fetch"
	"marketdash/internal/httpx"
	"marketdash/internal/logging"
	"marketdash/internal/pages"
	"marketdash/internal/provider"
	"marketdash/internal/provider/coingecko"
	"marketdash/internal/provider/ratelimit"
	"marketdash/internal/provider/wikipedia"
	"marketdash/internal/provider/yahoo"
)

// App is a ready dashboard.
type App struct {
	Router  *pages.Router
	Fetcher *fetch.Fetcher
}

// Policies maps the configured TTLs onto the fetcher's cache operations.
func Policies(c config.Cache) fetch.Policies {
	ttl := func(sec int) cache.Policy { return cache.TTL(time.Duration(sec) * time.Second) }
	return fetch.Policies{
		fetch.OpCommodities:  ttl(c.CommoditiesTTLSec),
		fetch.OpCryptos:      ttl(c.CryptosTTLSec),
		fetch.OpETFInfo:      ttl(c.ETFInfoTTLSec),
		fetch.OpETFOptions:   ttl(c.OptionsTTLSec),
		fetch.OpConstituents: ttl(c.ConstituentsTTLSec),
		fetch.OpEquities:     ttl(c.EquitiesTTLSec),
	}
}

func gate(next provider.HTTPClient, l config.Limits) provider.HTTPClient {
	return ratelimit.Wrap(next, l.MaxRequestsPerMinute, l.Burst, time.Duration(l.MinRequestIntervalSec)*time.Second)
}

// Sources builds the provider clients over httpClient.
func Sources(cfg config.Config, httpClient provider.HTTPClient) (fetch.Sources, error) {
	yopts := []yahoo.Option{yahoo.WithHTTPClient(gate(httpClient, cfg.Yahoo.Limits))}
	if cfg.Yahoo.BaseURL != "" {
		yopts = append(yopts, yahoo.WithBaseURL(cfg.Yahoo.BaseURL))
	}
	yc, err := yahoo.New(yopts...)
	if err != nil {
		return fetch.Sources{}, fmt.Errorf("yahoo client: %w", err)
	}

	copts := []coingecko.Option{
		coingecko.WithHTTPClient(gate(httpClient, cfg.CoinGecko.Limits)),
		coingecko.WithCurrency(cfg.CoinGecko.Currency),
	}
	if cfg.CoinGecko.BaseURL != "" {
		copts = append(copts, coingecko.WithBaseURL(cfg.CoinGecko.BaseURL))
	}
	cg, err := coingecko.New(cfg.CoinGecko.APIKey, copts...)
	if err != nil {
		return fetch.Sources{}, fmt.Errorf("coingecko client: %w", err)
	}

	wiki, err := wikipedia.New(
		wikipedia.WithHTTPClient(httpClient),
		wikipedia.WithPage(cfg.Wikipedia.URL, cfg.Wikipedia.TableID),
	)
	if err != nil {
		return fetch.Sources{}, fmt.Errorf("wikipedia client: %w", err)
	}

	return fetch.Sources{
		History:      yc,
		Info:         yc,
		Options:      yc,
		Markets:      cg,
		Constituents: wiki,
	}, nil
}

// New builds the dashboard from cfg.
func New(cfg config.Config, logger zerolog.Logger) (*App, error) {
	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	src, err := Sources(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	return Assemble(cfg, src, logger)
}

// Assemble builds the cache, fetcher and pages over already built sources.
func Assemble(cfg config.Config, src fetch.Sources, logger zerolog.Logger) (*App, error) {
	c, err := cache.New(cfg.Cache.MaxEntries,
		cache.WithComputeTimeout(time.Duration(cfg.Server.RenderTimeoutSec)*time.Second),
	)
	if err != nil {
		return nil, err
	}
	catalog, err := pages.LoadCatalog()
	if err != nil {
		return nil, err
	}
	f := fetch.New(src, c,
		fetch.WithPolicies(Policies(cfg.Cache)),
		fetch.WithLogger(logging.Component(logger, "fetch")),
	)
	router := pages.NewRouter(
		pages.NewCommodities(f, catalog),
		pages.NewCryptos(f, cfg.CoinGecko.TopN),
		pages.NewETFs(f, cfg.ETFs.WatchlistFile),
		pages.NewEquities(f),
	)
	return &App{Router: router, Fetcher: f}, nil
}
