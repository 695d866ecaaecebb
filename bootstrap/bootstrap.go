// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artpar/sportsgate/adapters/catalog"
	"github.com/artpar/sportsgate/adapters/clock"
	"github.com/artpar/sportsgate/adapters/hasher"
	apihttp "github.com/artpar/sportsgate/adapters/http"
	"github.com/artpar/sportsgate/adapters/idgen"
	"github.com/artpar/sportsgate/adapters/memory"
	"github.com/artpar/sportsgate/adapters/metrics"
	"github.com/artpar/sportsgate/adapters/random"
	"github.com/artpar/sportsgate/adapters/upstream"
	"github.com/artpar/sportsgate/app"
	"github.com/artpar/sportsgate/config"
	"github.com/artpar/sportsgate/domain/key"
	"github.com/artpar/sportsgate/domain/plan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DemoOwner owns the seeded demo key.
const DemoOwner = "demo-user"

// shutdownGrace bounds graceful shutdown.
const shutdownGrace = 30 * time.Second

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	HTTPServer *http.Server
	Gateway    *app.Gateway
	Metrics    *metrics.Collector // nil when metrics are disabled
	Registry   *prometheus.Registry
	Catalog    *catalog.Holder
}

// New creates and initializes the application with a logger built from cfg.
func New(cfg *config.Config) (*App, error) {
	return NewWithLogger(cfg, setupLogger(cfg.Logging))
}

// NewWithLogger creates and initializes the application.
func NewWithLogger(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	logger.Info().Str("addr", cfg.Addr()).Msg("initializing sportsgate")

	if cfg.UsesDefaultAdminToken() {
		logger.Warn().Msg("admin token is the development default; set SPORTSGATE_ADMIN_TOKEN")
	}

	a := &App{
		Logger:   logger,
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
	}

	if cfg.Metrics.Enabled {
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(a.Registry)
		logger.Info().Msg("prometheus metrics enabled")
	}

	clk := clock.Real{}

	if err := a.initCatalog(clk); err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	gw, err := a.buildGateway(clk)
	if err != nil {
		a.Catalog.Stop()
		return nil, err
	}
	a.Gateway = gw

	a.initHTTPServer()

	return a, nil
}

func (a *App) initCatalog(clk clock.Real) error {
	cfg := a.Config.Catalog

	holder, err := catalog.NewHolder(cfg.Path, a.Logger)
	if err != nil {
		return err
	}
	a.Catalog = holder

	if a.Metrics != nil {
		collector := a.Metrics
		holder.OnReload(func(err error) {
			collector.CatalogReloaded(err, clk.Now())
		})
		if cfg.Path != "" {
			collector.CatalogReloaded(nil, clk.Now())
		}
	}

	if cfg.Path == "" {
		a.Logger.Info().Int("sports", len(holder.Sports())).Msg("using built-in fallback catalog")
		return nil
	}

	a.Logger.Info().Str("path", holder.Path()).Int("sports", len(holder.Sports())).Msg("fallback catalog loaded")
	if cfg.Watch {
		if err := holder.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("catalog file watch unavailable, SIGHUP reload only")
		}
		holder.WatchSignals()
	}
	return nil
}

func (a *App) buildGateway(clk clock.Real) (*app.Gateway, error) {
	cfg := a.Config

	adminHasher := hasher.NewBcrypt(cfg.Admin.BcryptCost)
	adminHash, err := adminHasher.Hash(cfg.Admin.Token)
	if err != nil {
		return nil, fmt.Errorf("hash admin token: %w", err)
	}

	fetcher, err := upstream.New(upstream.Config{
		URL:             cfg.Upstream.URL,
		Timeout:         cfg.Upstream.Timeout,
		MaxIdleConns:    cfg.Upstream.MaxIdleConns,
		IdleConnTimeout: cfg.Upstream.IdleConnTimeout,
		IDs:             idgen.UUID{},
	})
	if err != nil {
		return nil, fmt.Errorf("init upstream: %w", err)
	}
	if fetcher.Configured() {
		a.Logger.Info().Str("url", cfg.Upstream.URL).Dur("timeout", fetcher.Timeout()).Msg("upstream configured")
	} else {
		a.Logger.Info().Msg("no upstream configured, serving fallback catalog")
	}

	keys := memory.NewKeyStore()
	demoKey := cfg.DemoAPIKey()
	if demoKey != "" {
		keys.Seed(key.New(demoKey, DemoOwner, plan.Free, clk.Now()))
		a.Logger.Info().Str("key", key.Mask(demoKey)).Msg("demo api key seeded")
	}

	return app.New(app.Deps{
		Keys:      keys,
		Usage:     memory.NewUsageStore(clk, memory.DefaultShards),
		RateLimit: memory.NewRateLimitStore(clk, memory.DefaultShards),
		Cache:     memory.NewMatchCache(clk),
		Fetcher:   fetcher,
		Catalog:   a.Catalog,
		Metrics:   metrics.NewRecorder(a.Metrics),
		Clock:     clk,
		Random:    random.Real{},
		Hasher:    adminHasher,
		Logger:    a.Logger,
	}, app.Config{
		Plans:          cfg.PlanTable(),
		CacheTTL:       cfg.Cache.TTL,
		AdminTokenHash: adminHash,
		DemoAPIKey:     demoKey,
	}), nil
}

func (a *App) initHTTPServer() {
	cfg := a.Config

	routerCfg := apihttp.RouterConfig{
		EnableOpenAPI: cfg.OpenAPI.Enabled,
	}
	if a.Metrics != nil {
		routerCfg.Metrics = a.Metrics
		routerCfg.MetricsHandler = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	}

	a.HTTPServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      apihttp.NewRouterWithConfig(a.Gateway, a.Logger, routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM or a server error.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		_ = a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown stops the catalog watcher and drains the HTTP server.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if a.Catalog != nil {
		a.Catalog.Stop()
	}

	var err error
	if a.HTTPServer != nil {
		if err = a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return err
}

// setupLogger builds the process logger. Unknown levels fall back to info.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
