package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Config holds connection parameters for the report store.
type Config struct {
	DSN             string
	MaxConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Open connects to the report store. A postgres:// DSN selects the pgx
// driver; anything else is treated as a SQLite path or URI.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	dsn := cfg.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	} else if !strings.Contains(dsn, "?") && !strings.Contains(dsn, ":memory:") {
		dsn += "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}

	logger.Info("connecting to report store", "driver", driver)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open report store", "driver", driver, "error", err)
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxConns > 0 {
			db.SetMaxOpenConns(cfg.MaxConns)
		}
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("report store ping failed", "error", err)
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
