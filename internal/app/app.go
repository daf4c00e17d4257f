package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/investhelper/config"
	"github.com/guttosm/investhelper/internal/api"
	"github.com/guttosm/investhelper/internal/logger"
	"github.com/guttosm/investhelper/internal/metrics"
	"github.com/guttosm/investhelper/internal/provider"
	"github.com/guttosm/investhelper/internal/render"
	"github.com/guttosm/investhelper/internal/service"
	"github.com/guttosm/investhelper/internal/storage"
)

// Components is the dependency graph shared by every run mode.
type Components struct {
	Service service.MetricsService
	// Cache is nil when CACHE_ENABLED is false.
	Cache *provider.Cached
	DB    *sql.DB
}

// Build wires provider, optional Postgres cache, engine and service from cfg.
// The returned cleanup closes the database and is safe to call once.
func Build(ctx context.Context, cfg config.Config) (*Components, func(), error) {
	upstream, err := newUpstream(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}

	comps := &Components{}
	cleanup := func() {}
	var hp provider.HistoryProvider = upstream

	if cfg.Cache.Enabled {
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		repo := storage.NewPriceRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to prepare cache schema: %w", err)
		}
		comps.DB = db
		comps.Cache = provider.NewCached(upstream, repo, cfg.Cache.TTL)
		hp = comps.Cache
		cleanup = func() { _ = db.Close() }
	}

	engine := metrics.NewEngine(hp, cfg.Metrics.RiskFreeRate)
	comps.Service = service.NewMetricsService(engine)

	lg := logger.With("app")
	lg.Info().
		Str("provider", cfg.Provider.Kind).
		Bool("cache", cfg.Cache.Enabled).
		Float64("risk_free_rate", cfg.Metrics.RiskFreeRate).
		Msg("components ready")
	return comps, cleanup, nil
}

func newUpstream(cfg config.ProviderConfig) (provider.HistoryProvider, error) {
	switch cfg.Kind {
	case config.ProviderYahoo, "":
		return provider.NewYahoo(provider.WithYahooRateLimit(cfg.RateLimit)), nil
	case config.ProviderCSV:
		return provider.NewCSVDir(cfg.CSVDataDir), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Kind)
	}
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds provider, optional Postgres cache, engine and service via Build().
//   - Creates the HTTP handler with a chart renderer (DefaultChartTTL cache).
//   - Configures the Gin router with request timeout and rate limit from config.
//   - Registers health and readiness probes; readiness pings the cache DB
//     only when the cache is enabled.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	comps, cleanup, err := Build(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(comps.Service, render.NewChartRenderer(render.DefaultChartTTL))
	router := api.NewRouter(handler, api.RouterOptions{
		RequestTimeout:     cfg.Server.RequestTimeout,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	})

	var ping func(ctx context.Context) error
	if comps.DB != nil {
		ping = comps.DB.PingContext
	}
	api.NewHealthHandler(ping).Register(router)

	return router, cleanup, nil
}
