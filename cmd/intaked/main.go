package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/export"
	"github.com/crimecard/intake/internal/extract"
	"github.com/crimecard/intake/internal/pipeline"
	"github.com/crimecard/intake/internal/repository"
	"github.com/crimecard/intake/internal/server"
	"github.com/crimecard/intake/internal/watch"
	"github.com/crimecard/intake/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Error("failed to create upload dir", "dir", cfg.Upload.Dir, "error", err)
		os.Exit(1)
	}

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}, logger)
	if err != nil {
		logger.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	reports, err := repository.NewReportRepository(db, logger)
	if err != nil {
		logger.Error("failed to init report repository", "error", err)
		os.Exit(1)
	}

	bridge := worker.NewBridge(worker.Config{
		Python:  cfg.Worker.Python,
		Script:  cfg.Worker.Script,
		Timeout: cfg.Worker.Timeout,
	}, logger)
	extractor := extract.NewExtractor(bridge, logger)
	proc := pipeline.NewProcessor(logger, extractor, bridge, reports)
	exporter := export.NewService(reports, logger)

	srv := server.NewServer(proc, reports, exporter, cfg.Upload.Dir, logger)

	if cfg.Watch.Dir != "" {
		dropper := watch.NewService(watch.Config{
			Dir:      cfg.Watch.Dir,
			Debounce: cfg.Watch.Debounce,
		}, proc, cfg.Upload.Dir, cfg.Watch.Source, logger)
		go func() {
			if err := dropper.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("drop watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		errCh <- srv.Run(cfg.Server.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("shutting down")
	}
}
