package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/academic-timetable/internal/application"
	"github.com/example/academic-timetable/internal/config"
	httptransport "github.com/example/academic-timetable/internal/http"
	"github.com/example/academic-timetable/internal/logging"
	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/persistence/memory"
	"github.com/example/academic-timetable/internal/persistence/sqlite"
	"github.com/example/academic-timetable/internal/scheduler"
	"github.com/example/academic-timetable/internal/seed"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		bootstrap.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start timetable service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("timetable API listening", "addr", server.Addr, "storage", cfg.Storage, "occupancy_index", cfg.OccupancyIndex)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// app is the wired service: store, services and the HTTP handler.
type app struct {
	Handler   http.Handler
	Store     persistence.Store
	Catalog   *application.CatalogService
	Timetable *application.TimetableService
}

func (a *app) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	validator := scheduler.NewValidator(occupancyFactory(cfg.OccupancyIndex))
	catalog := application.NewCatalogService(store, cfg.MaxStudentYear, logger)
	timetable := application.NewTimetableService(store, validator, logger)

	if cfg.Seed {
		if _, err := seed.Run(ctx, catalog, cfg.MaxStudentYear, logger); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Schedules:  httptransport.NewScheduleHandler(timetable, logger),
		Catalog:    httptransport.NewCatalogHandler(catalog, logger),
		Health:     httptransport.NewHealthHandler(store, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	return &app{Handler: handler, Store: store, Catalog: catalog, Timetable: timetable}, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Store, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on exit")
		return memory.New(), nil
	}

	sqliteConfig := sqlite.DefaultConfig(cfg.SQLitePath)
	sqliteConfig.BusyTimeout = cfg.SQLiteBusyTimeout
	sqliteConfig.MaxOpenConns = cfg.SQLiteMaxOpenConns

	storage, err := sqlite.Open(sqliteConfig)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(logging.ContextWithLogger(ctx, logger)); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return storage, nil
}

func occupancyFactory(name string) scheduler.OccupancyFactory {
	if name == config.OccupancyBucket {
		return scheduler.NewBucketIndex
	}
	return scheduler.NewLinearScan
}
