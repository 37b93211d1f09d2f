package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// RequestTimeoutSec bounds one provider HTTP call; RenderTimeoutSec bounds a
// whole page render, which may issue hundreds of calls.
type Server struct {
	Port              string `json:"port" yaml:"port" validate:"required,numeric"`
	RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec" validate:"gt=0"`
	RenderTimeoutSec  int    `json:"render_timeout_sec" yaml:"render_timeout_sec" validate:"gt=0"`
}

type Log struct {
	Level      string `json:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty     bool   `json:"pretty" yaml:"pretty"`
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" validate:"gte=0"`
}

// Limits configures the request gate put in front of a provider's HTTP client.
// MaxRequestsPerMinute wins over MinRequestIntervalSec when both are set.
type Limits struct {
	MaxRequestsPerMinute  int `json:"max_requests_per_minute" yaml:"max_requests_per_minute" validate:"gte=0"`
	MinRequestIntervalSec int `json:"min_request_interval_sec" yaml:"min_request_interval_sec" validate:"gte=0"`
	Burst                 int `json:"burst" yaml:"burst" validate:"gte=0"`
}

type Yahoo struct {
	BaseURL string `json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Limits  `yaml:",inline"`
}

type CoinGecko struct {
	BaseURL  string `json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
	Currency string `json:"vs_currency" yaml:"vs_currency" validate:"required"`
	TopN     int    `json:"top_n" yaml:"top_n" validate:"gt=0,lte=5000"`
	Limits   `yaml:",inline"`
}

type Wikipedia struct {
	URL     string `json:"url" yaml:"url" validate:"required,url"`
	TableID string `json:"table_id" yaml:"table_id" validate:"required"`
}

type Nasdaq struct {
	BaseURL string `json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	APIKey  string `json:"api_key" yaml:"api_key"`
}

type ETFs struct {
	WatchlistFile string `json:"watchlist_file" yaml:"watchlist_file" validate:"required"`
}

// Cache TTLs are in seconds; 0 keeps an entry until the page is refreshed.
type Cache struct {
	MaxEntries         int `json:"max_entries" yaml:"max_entries" validate:"gt=0"`
	CommoditiesTTLSec  int `json:"commodities_ttl_sec" yaml:"commodities_ttl_sec" validate:"gte=0"`
	CryptosTTLSec      int `json:"cryptos_ttl_sec" yaml:"cryptos_ttl_sec" validate:"gte=0"`
	ETFInfoTTLSec      int `json:"etf_info_ttl_sec" yaml:"etf_info_ttl_sec" validate:"gte=0"`
	OptionsTTLSec      int `json:"options_ttl_sec" yaml:"options_ttl_sec" validate:"gte=0"`
	ConstituentsTTLSec int `json:"constituents_ttl_sec" yaml:"constituents_ttl_sec" validate:"gte=0"`
	EquitiesTTLSec     int `json:"equities_ttl_sec" yaml:"equities_ttl_sec" validate:"gte=0"`
}

type Config struct {
	Server    Server    `json:"server" yaml:"server"`
	Log       Log       `json:"log" yaml:"log"`
	Yahoo     Yahoo     `json:"yahoo" yaml:"yahoo"`
	CoinGecko CoinGecko `json:"coingecko" yaml:"coingecko"`
	Wikipedia Wikipedia `json:"wikipedia" yaml:"wikipedia"`
	Nasdaq    Nasdaq    `json:"nasdaq" yaml:"nasdaq"`
	ETFs      ETFs      `json:"etfs" yaml:"etfs"`
	Cache     Cache     `json:"cache" yaml:"cache"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10, RenderTimeoutSec: 600},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Yahoo: Yahoo{
			Limits: Limits{MaxRequestsPerMinute: 120, Burst: 10},
		},
		CoinGecko: CoinGecko{
			Currency: "usd",
			TopN:     500,
			Limits:   Limits{MaxRequestsPerMinute: 10, Burst: 2},
		},
		Wikipedia: Wikipedia{
			URL:     "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
			TableID: "constituents",
		},
		ETFs: ETFs{WatchlistFile: "etfs.txt"},
		Cache: Cache{
			MaxEntries:    1024,
			OptionsTTLSec: 300,
		},
	}
}

// Load reads a JSON or YAML config from path. If path is empty it falls back to
// config.json (then config.yaml) in the working directory; a missing file yields
// defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, p := range []string{"config.json", "config.yaml"} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := decode(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

// Validate checks field constraints declared in struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	setInt("REQUEST_TIMEOUT_SEC", &cfg.Server.RequestTimeoutSec, 1)
	setInt("RENDER_TIMEOUT_SEC", &cfg.Server.RenderTimeoutSec, 1)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			cfg.Log.Pretty = true
		case "0", "false", "no", "n":
			cfg.Log.Pretty = false
		}
	}

	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Yahoo.BaseURL = v
	}
	setInt("YAHOO_MAX_RPM", &cfg.Yahoo.MaxRequestsPerMinute, 0)
	setInt("YAHOO_MIN_INTERVAL_SEC", &cfg.Yahoo.MinRequestIntervalSec, 0)
	setInt("YAHOO_BURST", &cfg.Yahoo.Burst, 1)

	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.CoinGecko.APIKey = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.CoinGecko.BaseURL = v
	}
	setInt("COINGECKO_TOP_N", &cfg.CoinGecko.TopN, 1)
	setInt("COINGECKO_MAX_RPM", &cfg.CoinGecko.MaxRequestsPerMinute, 0)
	setInt("COINGECKO_MIN_INTERVAL_SEC", &cfg.CoinGecko.MinRequestIntervalSec, 0)
	setInt("COINGECKO_BURST", &cfg.CoinGecko.Burst, 1)

	if v := os.Getenv("NASDAQ_DATA_LINK_API_KEY"); v != "" {
		cfg.Nasdaq.APIKey = v
	}
	if v := os.Getenv("WATCHLIST_FILE"); v != "" {
		cfg.ETFs.WatchlistFile = v
	}

	setInt("CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries, 1)
	setInt("COMMODITIES_CACHE_TTL_SEC", &cfg.Cache.CommoditiesTTLSec, 0)
	setInt("CRYPTOS_CACHE_TTL_SEC", &cfg.Cache.CryptosTTLSec, 0)
	setInt("ETF_INFO_CACHE_TTL_SEC", &cfg.Cache.ETFInfoTTLSec, 0)
	setInt("OPTIONS_CACHE_TTL_SEC", &cfg.Cache.OptionsTTLSec, 0)
	setInt("CONSTITUENTS_CACHE_TTL_SEC", &cfg.Cache.ConstituentsTTLSec, 0)
	setInt("EQUITIES_CACHE_TTL_SEC", &cfg.Cache.EquitiesTTLSec, 0)
}

// setInt overrides *dst with the integer in env key when it parses and is >= min.
func setInt(key string, dst *int, min int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return
	}
	if x >= min {
		*dst = x
	}
}

// SplitCSV splits a comma-separated list, dropping empty items.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
