package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/dpineda/mediashelf-backend/api/pages"
	"github.com/dpineda/mediashelf-backend/api/routes"
	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/config"
	"github.com/dpineda/mediashelf-backend/pkg/db"
	"github.com/dpineda/mediashelf-backend/pkg/env"
	"github.com/dpineda/mediashelf-backend/pkg/instance"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
	"github.com/dpineda/mediashelf-backend/pkg/migrate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	host := flag.String("host", "", "bind address, overrides MEDIASHELF_APP_HOST")
	port := flag.String("port", "", "listen port, overrides MEDIASHELF_APP_PORT and PORT")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "mediashelf"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "mediashelf",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.UsingDefaultSecret() && !cfg.App.IsDev() {
		logg.Warn(context.Background(), "SECRET_KEY still has the dev placeholder value, set a real secret")
	}

	if err := serve(cfg, logg, *host, *port); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logg *logger.Logger, host, port string) error {
	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	pageHandler, err := pages.NewHandler(catalogService, cfg, logg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if host != "" {
		cfg.App.Host = host
	}
	if port != "" {
		cfg.App.Port = port
	} else {
		cfg.App.Port = env.Get(config.EnvPort, cfg.App.Port)
	}
	addr := cfg.App.Addr()

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, catalogService, pageHandler, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-signalCtx.Done():
	}

	logg.Info(ctx, "shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if listenErr := <-serveErr; listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
		err = multierr.Append(err, listenErr)
	}
	if err != nil {
		return err
	}

	logg.Info(ctx, "api server stopped")
	return nil
}
