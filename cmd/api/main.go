package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jravahfoods/storefront/api/routes"
	"github.com/jravahfoods/storefront/internal/catalog"
	"github.com/jravahfoods/storefront/internal/notices"
	"github.com/jravahfoods/storefront/internal/session"
	"github.com/jravahfoods/storefront/pkg/config"
	"github.com/jravahfoods/storefront/pkg/instance"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "products", products.Len()), "catalog loaded")

	store, err := openBackend(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open cart storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions, err := session.New(store, products, session.Options{
		BaseKey:     cfg.Storage.CartKey,
		Feed:        notices.NewFeed(),
		Logger:      logg,
		Metrics:     metrics.NewCartMetrics(registry),
		NoticeTTL:   cfg.Checkout.ToastDuration,
		MaxSessions: cfg.Session.MaxActive,
		IdleTTL:     cfg.Session.IdleTTL,
		NoWatch:     !cfg.Storage.Watch,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}
	if err := sessions.Start(ctx); err != nil {
		logg.Error(ctx, "failed to start session registry", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Catalog:  products,
			Sessions: sessions,
			Ready:    store.ready,
			Gatherer: registry,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	if err := sessions.Close(); err != nil {
		logg.Error(ctx, "error stopping storage watchers", err)
		exitCode = 1
	}
	if err := store.Close(); err != nil {
		logg.Error(ctx, "error closing cart storage", err)
		exitCode = 1
	}
	stop()
	os.Exit(exitCode)
}
