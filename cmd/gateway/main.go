package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/yourusername/open-isbn/pkg/config"
	"github.com/yourusername/open-isbn/pkg/index"
	"github.com/yourusername/open-isbn/pkg/isbn"
	"github.com/yourusername/open-isbn/pkg/metrics"
	"github.com/yourusername/open-isbn/pkg/provider"
	"github.com/yourusername/open-isbn/pkg/rangefile"
	"github.com/yourusername/open-isbn/pkg/telemetry"
)

// @title           Open ISBN Gateway API
// @version         1.0
// @description     Parse, validate and catalogue ISBNs (ISO 2108).

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8899
// @BasePath  /api

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func initLogger(level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func openProvider(cfg config.Config, table *isbn.RangeTable) (provider.Provider, error) {
	switch cfg.DBProvider {
	case "sqlite":
		return provider.NewSQLiteProvider(cfg.DBPath, table)
	case "postgres":
		return provider.NewPostgresProvider(cfg.DBDSN, table)
	case "", "memory":
		return provider.NewMemoryProvider(table), nil
	}
	return nil, fmt.Errorf("unknown DB_PROVIDER %q", cfg.DBProvider)
}

func main() {
	fs := afero.NewOsFs()
	cfg, err := config.Load(fs)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	initLogger(cfg.SlogLevel())

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint, nil)
	if err != nil {
		slog.Warn("failed to init tracer", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	table, err := rangefile.LoadOrDefault(fs, cfg.RangeFile)
	if err != nil {
		slog.Error("failed to load range table", "path", cfg.RangeFile, "error", err)
		os.Exit(1)
	}

	slog.Info("initializing database provider", "type", cfg.DBProvider)
	store, err := openProvider(cfg, table)
	if err != nil {
		slog.Error("failed to initialize database provider", "type", cfg.DBProvider, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	idx, err := index.BuildFromTable(table)
	if err != nil {
		slog.Error("failed to build agency index", "error", err)
		os.Exit(1)
	}
	defer idx.Close()

	gw := NewGateway(cfg, table, store, idx, metrics.New())
	router := setupRouter(gw)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("gateway starting", "addr", httpSrv.Addr, "auth", cfg.AuthEnabled())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("gateway listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("gateway forced to shutdown", "error", err)
	}
	slog.Info("gateway exiting")
}
