package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"

	"marketdash/internal/config"
	"marketdash/internal/httpx"
	"marketdash/internal/logging"
	"marketdash/internal/provider/nasdaqdl"
)

func main() {
	var (
		configPath string
		code       string
		columns    string
		tickers    string
		from       string
		to         string
		rows       int
		outPath    string
	)
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.StringVar(&code, "table", "WIKI/PRICES", "datatable code")
	flag.StringVar(&columns, "columns", "ticker,date,close", "comma-separated columns")
	flag.StringVar(&tickers, "tickers", "AAPL,MSFT", "comma-separated tickers")
	flag.StringVar(&from, "from", "2022-01-01", "first date (YYYY-MM-DD), empty for no bound")
	flag.StringVar(&to, "to", "2022-12-31", "last date (YYYY-MM-DD), empty for no bound")
	flag.IntVar(&rows, "rows", 5, "rows shown for head and tail")
	flag.StringVar(&outPath, "out", "", "also write the full frame as JSON to this file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger, closer := logging.New(cfg.Log)
	defer closer.Close()

	if cfg.Nasdaq.APIKey == "" {
		logger.Warn().Msg("NASDAQ_DATA_LINK_API_KEY not set; anonymous calls are heavily limited")
	}

	q := nasdaqdl.TableQuery{
		Columns: config.SplitCSV(columns),
		Tickers: config.SplitCSV(tickers),
	}
	if q.From, err = date(from); err != nil {
		logger.Fatal().Err(err).Msg("-from")
	}
	if q.To, err = date(to); err != nil {
		logger.Fatal().Err(err).Msg("-to")
	}

	opts := []nasdaqdl.Option{
		nasdaqdl.WithHTTPClient(httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)),
	}
	if cfg.Nasdaq.BaseURL != "" {
		opts = append(opts, nasdaqdl.WithBaseURL(cfg.Nasdaq.BaseURL))
	}
	client, err := nasdaqdl.New(cfg.Nasdaq.APIKey, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("nasdaq client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RenderTimeoutSec)*time.Second)
	defer cancel()

	frame, err := client.Table(ctx, code, q)
	if err != nil {
		logger.Fatal().Err(err).Str("table", code).Msg("fetching datatable")
	}
	frame.SortBy("date")

	fmt.Printf("Data shape: (%d, %d)\n", len(frame.Rows), len(frame.Columns))
	n := min(rows, len(frame.Rows))
	fmt.Println(render(frame, frame.Rows[:n]))
	fmt.Println(render(frame, frame.Rows[len(frame.Rows)-n:]))

	if outPath != "" {
		if err := dump(outPath, frame); err != nil {
			logger.Fatal().Err(err).Msg("writing output")
		}
		logger.Info().Str("out", outPath).Int("rows", len(frame.Rows)).Msg("done")
	}
}

func date(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

func render(f nasdaqdl.Frame, rows [][]any) string {
	headers := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		headers[i] = c.Name
	}
	t := table.New().Headers(headers...)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		t.Row(cells...)
	}
	return t.Render()
}

// dump writes the frame as {"columns": [...], "data": [...]}.
func dump(path string, f nasdaqdl.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 1<<20)
	err = json.NewEncoder(bw).Encode(struct {
		Columns []nasdaqdl.Column `json:"columns"`
		Data    [][]any           `json:"data"`
	}{f.Columns, f.Rows})
	if err != nil {
		return err
	}
	return bw.Flush()
}
