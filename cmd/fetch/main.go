package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"marketdash/internal/app"
	"marketdash/internal/config"
	"marketdash/internal/logging"
	"marketdash/internal/pages"
	"marketdash/internal/present"
)

// params maps flag names onto page request parameters.
var params = []string{"sort", "order", "top", "symbols", "period", "interval", "limit", "underpriced"}

func main() {
	var (
		page       string
		configPath string
		asJSON     bool
	)
	flag.StringVar(&page, "page", "", "page label or slug to render (empty lists pages)")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.BoolVar(&asJSON, "json", false, "write the view as JSON instead of a table")
	flag.String("sort", "", "column to sort the grid by")
	flag.String("order", "", "sort order: asc or desc")
	flag.String("top", "", "Cryptos: number of assets by market capitalization")
	flag.String("symbols", "", "Commodities: comma-separated tickers")
	flag.String("period", "", "Commodities: history range, e.g. 1mo, 3mo, 1y")
	flag.String("interval", "", "Commodities: sample interval, e.g. 1d, 1wk")
	flag.String("limit", "", "Underpriced Stocks: analyse only the first n constituents")
	flag.String("underpriced", "", "Underpriced Stocks: keep only underpriced rows")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger, closer := logging.New(cfg.Log)
	defer closer.Close()

	dash, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building dashboard")
	}

	if page == "" {
		listPages(dash.Router)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.RenderTimeoutSec)*time.Second)
	defer cancel()

	start := time.Now()
	view, err := dash.Router.Render(ctx, page, request(flag.CommandLine))
	switch {
	case errors.Is(err, pages.ErrUnknownPage):
		fmt.Fprintf(os.Stderr, "unknown page %q\n", page)
		listPages(dash.Router)
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Debug().Str("page", view.Page).Dur("took", time.Since(start)).Msg("rendered")

	if asJSON {
		err = present.WriteJSON(os.Stdout, view)
	} else {
		err = present.WriteText(os.Stdout, view)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("writing view")
	}
	if view.State == present.StateError {
		os.Exit(1)
	}
}

// request copies the explicitly set page flags of fs into a request.
func request(fs *flag.FlagSet) pages.Request {
	req := pages.NewRequest()
	fs.Visit(func(f *flag.Flag) {
		for _, name := range params {
			if f.Name == name {
				req.Params.Set(name, f.Value.String())
			}
		}
	})
	return req
}

func listPages(r *pages.Router) {
	fmt.Println("pages:")
	for i, label := range r.Labels() {
		fmt.Printf("  %d. %s (%s)\n", i+1, label, pages.Slug(label))
	}
}
