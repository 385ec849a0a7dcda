// Command cleanup removes audit log records older than the configured
// retention period. It is intended to be invoked by an external cron job.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres/audit"
	"github.com/heartmarshall/iati-publisher/internal/app"
	"github.com/heartmarshall/iati-publisher/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	threshold := time.Now().UTC().AddDate(0, 0, -cfg.Audit.RetentionDays)

	deleted, err := audit.New(pool).DeleteOlderThan(ctx, threshold)
	if err != nil {
		logger.Error("audit cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("audit cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
