package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/capacity-planner/console/internal/backend"
	"example.com/capacity-planner/console/internal/config"
	"example.com/capacity-planner/console/internal/database"
	"example.com/capacity-planner/console/internal/notifications"
	"example.com/capacity-planner/console/internal/repository"
	"example.com/capacity-planner/console/internal/server"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	reports, pool, err := openArchive(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to open report archive", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, cfg.Backend.TrainTimeout)
	hub := notifications.NewHub()

	sessions := server.NewSessionStore(cfg.Session, hub, client, reports, logger)
	sessions.StartSweeper(sweepInterval(cfg.Session.TTL))
	defer sessions.Stop()

	e, err := server.New(cfg, logger, server.Deps{
		Backend:  client,
		Reports:  reports,
		Sessions: sessions,
		Hub:      hub,
	})
	if err != nil {
		logger.Error("failed to build server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		logger.Info("console started",
			slog.String("addr", httpServer.Addr),
			slog.String("backend", cfg.Backend.BaseURL),
			slog.String("archive", cfg.Archive),
		)
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// openArchive выбирает хранилище отчетов; пул возвращается только для postgres.
func openArchive(ctx context.Context, cfg config.Config) (repository.ReportStore, *pgxpool.Pool, error) {
	if cfg.Archive != config.ArchivePostgres {
		return repository.NewMemoryReportStore(), nil, nil
	}

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	reports := repository.NewReportRepository(pool)
	if err := reports.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return reports, pool, nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
