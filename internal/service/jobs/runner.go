// Package jobs holds the background jobs: reindexing modified activities and
// recomputing transaction balances.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Stats summarises one job run.
type Stats struct {
	Processed int
	Skipped   int
	Failed    int
}

// Job is one background job.
type Job interface {
	Name() string
	Run(ctx context.Context) (Stats, error)
}

// Runner executes jobs with a timeout, a trace span, metrics and logging.
type Runner struct {
	log     *slog.Logger
	metrics *Metrics
	timeout time.Duration
}

// NewRunner creates a runner. A zero timeout means no timeout.
func NewRunner(logger *slog.Logger, metrics *Metrics, timeout time.Duration) *Runner {
	return &Runner{
		log:     logger,
		metrics: metrics,
		timeout: timeout,
	}
}

// Run executes the job once.
func (r *Runner) Run(ctx context.Context, job Job) (Stats, error) {
	log := r.log.With("job", job.Name())
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("iati-publisher/jobs").Start(ctx, "job."+job.Name())
	defer span.End()

	start := time.Now()
	log.InfoContext(ctx, "job started")

	stats, err := job.Run(ctx)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int("job.processed", stats.Processed),
		attribute.Int("job.failed", stats.Failed),
	)
	if r.metrics != nil {
		r.metrics.record(job.Name(), stats, elapsed.Seconds(), err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "job failed",
			slog.String("error", err.Error()),
			slog.Int("processed", stats.Processed),
			slog.Duration("duration", elapsed),
		)
		return stats, err
	}

	log.InfoContext(ctx, "job completed",
		slog.Int("processed", stats.Processed),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", elapsed),
	)
	return stats, nil
}
