package main

//
//  @title           investhelper API
//  @version         1.0
//  @description     Historical return, risk metrics and retirement projection for a single ticker.
//  @termsOfService  https://github.com/guttosm/investhelper
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/investhelper
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        metrics
//  @tag.description Return series, risk metrics, CSV export and charts
//
//  @tag.name        retirement
//  @tag.description Safe-withdrawal retirement projection
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/investhelper/config"
	_ "github.com/guttosm/investhelper/docs" // swagger docs
	"github.com/guttosm/investhelper/internal/app"
	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/ingestion"
	"github.com/guttosm/investhelper/internal/logger"
	"github.com/guttosm/investhelper/internal/provider"
	"github.com/guttosm/investhelper/internal/render"
	"github.com/guttosm/investhelper/internal/retirement"
	"github.com/guttosm/investhelper/internal/service"
	"github.com/guttosm/investhelper/internal/ticker"
)

// startServer starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT or SIGTERM, then shuts the server
// down and runs cleanup.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// reportOptions are the flags of --mode report.
type reportOptions struct {
	Ticker    string
	Market    string
	Start     string
	End       string
	Retire    bool
	Expense   float64
	Inflation float64
	CSVPath   string
	ChartPath string
	ChartKind string
}

// runReport prints the metrics summary (and optionally the retirement
// projection) for one ticker to w, writing CSV and PNG files when asked.
func runReport(ctx context.Context, svc service.MetricsService, o reportOptions, w io.Writer) error {
	q := service.MetricsQuery{Ticker: o.Ticker, Market: ticker.ParseMarket(o.Market)}
	var err error
	if q.Start, err = parseDateFlag("start", o.Start); err != nil {
		return err
	}
	if q.End, err = parseDateFlag("end", o.End); err != nil {
		return err
	}

	if !o.Retire {
		res, err := svc.GetMetrics(ctx, q)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, render.SummaryText(res.Ticker, res.Summary)); err != nil {
			return err
		}
		return writeArtifacts(res.Ticker, res.Prices, res.Series, o)
	}

	out, err := svc.GetRetirement(ctx, service.RetirementQuery{
		MetricsQuery:  q,
		AnnualExpense: o.Expense,
		InflationPct:  o.Inflation,
	})
	if err != nil {
		return err
	}
	res := out.Metrics
	if _, err := fmt.Fprintln(w, render.RetirementText(res.Ticker, res.Summary, out.Plan)); err != nil {
		return err
	}
	if !out.Plan.Sufficient {
		logger.L().Warn().Str("ticker", res.Ticker).Err(retirement.ErrNonPositiveWithdrawalRate).Msg("retirement plan insufficient")
	}
	return writeArtifacts(res.Ticker, res.Prices, res.Series, o)
}

// writeArtifacts writes the optional CSV table and PNG chart of a report.
func writeArtifacts(tk string, prices models.PriceHistory, series models.ReturnSeries, o reportOptions) error {
	if o.CSVPath != "" {
		f, err := os.Create(o.CSVPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		if err := render.WriteCSV(f, series); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if o.ChartPath != "" {
		kind, err := render.ParseChartKind(o.ChartKind)
		if err != nil {
			return err
		}
		img, err := render.NewChartRenderer(render.DefaultChartTTL).Render(tk, prices, series, kind)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.ChartPath, img, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}
	return nil
}

func parseDateFlag(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return &t, nil
}

// runWarm normalizes tickers for market and warms the price cache.
func runWarm(ctx context.Context, cache *provider.Cached, list, market string, parallel int, force bool, w io.Writer) error {
	if cache == nil {
		return errors.New("warm mode requires CACHE_ENABLED=true")
	}
	m := ticker.ParseMarket(market)
	raw := ingestion.ParseTickerList(list)
	tickers := make([]string, 0, len(raw))
	for _, t := range raw {
		tickers = append(tickers, ticker.Normalize(t, m))
	}

	rep, err := ingestion.WarmTickers(ctx, cache, tickers, parallel, force)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "refreshed %d, skipped %d, bars %d in %s\n",
		len(rep.Refreshed), len(rep.Skipped), rep.Bars, rep.Elapsed.Round(time.Millisecond))
	return err
}

// main is the entry point of investhelper.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API.
//   - report: Prints the metrics (or, with --retire, the retirement
//     projection) for --ticker and exits.
//   - warm:   Prefetches --tickers into the Postgres price cache.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	mode := flag.String("mode", "api", "Mode: api, report or warm")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")

	var ro reportOptions
	flag.StringVar(&ro.Ticker, "ticker", "", "Raw symbol for report mode, e.g. AAPL or 2330")
	flag.StringVar(&ro.Market, "market", "US", "Market: US, TW, JP or UK")
	flag.StringVar(&ro.Start, "start", "", "First date YYYY-MM-DD (optional)")
	flag.StringVar(&ro.End, "end", "", "Last date YYYY-MM-DD (optional)")
	flag.BoolVar(&ro.Retire, "retire", false, "Print the retirement projection instead of the metrics summary")
	flag.Float64Var(&ro.Expense, "expense", 500000, "Annual expense for --retire")
	flag.Float64Var(&ro.Inflation, "inflation", 2.0, "Expected inflation in percent for --retire")
	flag.StringVar(&ro.CSVPath, "csv", "", "Also write the return table to this CSV file")
	flag.StringVar(&ro.ChartPath, "chart", "", "Also write a PNG chart to this file")
	flag.StringVar(&ro.ChartKind, "chart-kind", "cumulative", "Chart kind: cumulative or price")

	tickers := flag.String("tickers", "", "Comma separated symbols for warm mode")
	parallel := flag.Int("parallel", 0, "Concurrent fetches in warm mode (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Refetch tickers even if the cache is fresh")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "report":
		comps, cleanup, err := app.Build(ctx, cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		rctx, cancel := context.WithTimeout(ctx, cfg.Server.RequestTimeout)
		defer cancel()
		if err := runReport(rctx, comps.Service, ro, os.Stdout); err != nil {
			logger.L().Error().Err(err).Str("ticker", ro.Ticker).Msg("report failed")
			cleanup()
			os.Exit(1)
		}

	case "warm":
		comps, cleanup, err := app.Build(ctx, cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		if err := runWarm(ctx, comps.Cache, *tickers, ro.Market, *parallel, *force, os.Stdout); err != nil {
			logger.L().Error().Err(err).Msg("warm-up failed")
			cleanup()
			os.Exit(1)
		}
		logger.L().Info().Msg("warm-up completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
