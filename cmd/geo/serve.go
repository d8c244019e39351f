package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/geo-dev/geo"
	"github.com/geo-dev/geo/internal/api"
	"github.com/geo-dev/geo/internal/config"
	"github.com/geo-dev/geo/internal/llm"
	"github.com/geo-dev/geo/internal/publish"
	"github.com/geo-dev/geo/internal/scheduler"
	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/internal/store"
	"github.com/geo-dev/geo/internal/telemetry"
	"github.com/geo-dev/geo/internal/views"
	"github.com/geo-dev/geo/pkg/middleware"
	"github.com/geo-dev/geo/pkg/routepath"
	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/server"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		addr      string
		preload   bool
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the console server",
		Long: `Run the console server.

Serves the dashboard under BASE_URL, the JSON API under its api/
path and Prometheus metrics under metrics/. Unless disabled, the
scheduler generates the day's collection tasks at the configured time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if preload {
				cfg.Routes.Preload = true
			}
			logger := newLogger(os.Stderr, cfg.Log, cfg.Server.DevMode)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, staticDir, logger)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.address)")
	cmd.Flags().BoolVar(&preload, "preload", false, "load every view before accepting requests")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory served under static/")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, staticDir string, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Env.ServiceName, version, cfg.Env.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("trace flush failed", "error", err)
		}
	}()

	st, err := store.OpenAndMigrate(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newService(cfg, st, logger)
	if err != nil {
		return err
	}

	base := routepath.NormalizeBase(cfg.Env.BaseURL)
	table, err := newTable(cfg, svc, base, logger)
	if err != nil {
		return err
	}
	if cfg.Routes.Preload {
		if err := table.Preload(ctx); err != nil {
			return err
		}
		logger.Info("views preloaded", "count", len(table.Entries()))
	}

	metrics := middleware.NewMetrics()
	app := geo.New(geo.Config{
		API:      api.New(svc, logger).Routes(),
		Chrome:   views.Chrome,
		NotFound: views.NotFound,
		Failure:  views.Failure,
		Static:   geo.StaticConfig{Dir: staticDir, CacheControl: cacheStrategy(cfg.Server.DevMode)},
		Security: geo.SecurityConfig{AllowSameOrigin: true},
		Metrics:  metrics,
		DevMode:  cfg.Server.DevMode,
		Logger:   logger,
	}, table)

	srv := server.New(&server.ServerConfig{
		Address:           cfg.Server.Address,
		ReadHeaderTimeout: server.DefaultServerConfig().ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, app, logger)
	srv.RegisterOnShutdown(app.Shutdown)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	if cfg.Scheduler.Enabled {
		daily := scheduler.NewDaily(scheduler.Config{
			Hour:         cfg.Scheduler.Hour,
			Minute:       cfg.Scheduler.Minute,
			RunOnStartup: cfg.Scheduler.RunOnStartup,
			Name:         "generate-tasks",
		}, func(ctx context.Context) error {
			n, err := svc.GenerateTasks(ctx)
			if err == nil {
				logger.Info("collection tasks generated", "count", n)
			}
			return err
		})
		g.Go(func() error { return daily.Run(ctx) })
	}

	logger.Info("geo console starting",
		"address", cfg.Server.Address,
		"base", base,
		"history", cfg.Routes.History,
		"config", cfg.Path(),
		"version", version,
	)
	return g.Wait()
}

// newService wires the store, LLM client and publisher.
func newService(cfg *config.Config, st *store.Store, logger *slog.Logger) (*service.Service, error) {
	pub, err := publish.New(cfg.Publish, cfg.Env)
	if err != nil {
		return nil, err
	}
	client := llm.New(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.ResolvedAPIKey(),
		Timeout: cfg.LLM.Timeout,
	})
	if cfg.LLM.ResolvedAPIKey() == "" {
		logger.Warn("no LLM API key configured; scoring and article generation will fail",
			"api_key_env", cfg.LLM.APIKeyEnv)
	}
	return service.New(st,
		service.WithLLM(client),
		service.WithPublisher(pub),
		service.WithLogger(logger.With("component", "service")),
	), nil
}

// newTable builds the console route table. svc may be nil for commands
// that only inspect routes.
func newTable(cfg *config.Config, svc *service.Service, base string, logger *slog.Logger) (*router.Table, error) {
	entries := views.Routes(views.Deps{
		Service: svc,
		APIBase: routepath.JoinBase(base, geo.APIPath),
		Logger:  logger,
	})
	for i := range entries {
		entries[i].LoadTimeout = cfg.Routes.LoadTimeout
	}
	return router.New(router.HistoryFor(cfg.Routes.History, base), entries...)
}

func cacheStrategy(dev bool) geo.CacheControlStrategy {
	if dev {
		return geo.CacheControlNone
	}
	return geo.CacheControlProduction
}
