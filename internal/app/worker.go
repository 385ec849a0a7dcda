package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/service/jobs"
)

// RunWorker schedules the reindex and balance jobs and serves their metrics
// until ctx is cancelled.
func RunWorker(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting worker", slog.String("version", BuildVersion()))

	loc, err := time.LoadLocation(cfg.Worker.Timezone)
	if err != nil {
		return fmt.Errorf("load worker timezone %q: %w", cfg.Worker.Timezone, err)
	}

	shutdownTracing, err := SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background()) //nolint:errcheck

	deps, err := NewDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	runner := jobs.NewRunner(logger, jobs.NewMetrics(reg), cfg.Worker.JobTimeout)
	scheduler := jobs.NewScheduler(logger, runner, loc)

	if err := scheduler.Add(cfg.Worker.ReindexSchedule, deps.ReindexJob(logger, cfg.Worker)); err != nil {
		return err
	}
	if err := scheduler.Add(cfg.Worker.BalanceSchedule, deps.BalanceJob(logger, cfg.Worker, loc)); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Worker.MetricsPort)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	scheduler.Start()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		scheduler.Stop(sctx)
	}()

	return serve(ctx, logger, srv, cfg.Server.ShutdownTimeout)
}

// JobName selects a one-shot job for RunJob.
type JobName string

const (
	JobReindex JobName = "reindex"
	JobBalance JobName = "balance"
)

// RunJob runs a single pass of the named job and returns its stats. For the
// balance job a non-nil activityID limits the pass to that activity.
func RunJob(ctx context.Context, name JobName, activityID uuid.UUID) (jobs.Stats, error) {
	cfg, err := config.Load()
	if err != nil {
		return jobs.Stats{}, err
	}

	logger := NewLogger(cfg.Log)

	loc, err := time.LoadLocation(cfg.Worker.Timezone)
	if err != nil {
		return jobs.Stats{}, fmt.Errorf("load worker timezone %q: %w", cfg.Worker.Timezone, err)
	}

	deps, err := NewDeps(ctx, cfg, logger)
	if err != nil {
		return jobs.Stats{}, err
	}
	defer deps.Close()

	var job jobs.Job
	switch name {
	case JobReindex:
		job = deps.ReindexJob(logger, cfg.Worker)
	case JobBalance:
		b := deps.BalanceJob(logger, cfg.Worker, loc)
		if activityID != uuid.Nil {
			b = b.Only(activityID)
		}
		job = b
	default:
		return jobs.Stats{}, fmt.Errorf("unknown job %q", name)
	}

	return jobs.NewRunner(logger, nil, cfg.Worker.JobTimeout).Run(ctx, job)
}
