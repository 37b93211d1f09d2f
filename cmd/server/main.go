package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"marketdash/internal/app"
	"marketdash/internal/config"
	"marketdash/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger, closer := logging.New(cfg.Log)
	defer closer.Close()

	if cfg.CoinGecko.APIKey == "" {
		logger.Warn().Msg("COINGECKO_API_KEY not set; using the keyless public tier")
	}

	dash, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building dashboard")
	}

	renderTimeout := time.Duration(cfg.Server.RenderTimeoutSec) * time.Second
	h := &handler{
		router:  dash.Router,
		stats:   dash.Fetcher.CacheStats,
		timeout: renderTimeout,
		log:     logging.Component(logger, "http"),
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      renderTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Strs("pages", dash.Router.Labels()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("server stopped")
}
