package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	stats Stats
	err   error
	ran   bool
	dl    bool
}

func (j *stubJob) Name() string { return "stub" }

func (j *stubJob) Run(ctx context.Context) (Stats, error) {
	j.ran = true
	_, j.dl = ctx.Deadline()
	return j.stats, j.err
}

func TestRunner_Run_RecordsMetrics(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics(prometheus.NewRegistry())
	runner := NewRunner(slog.New(slog.DiscardHandler), metrics, time.Minute)

	ok := &stubJob{stats: Stats{Processed: 3}}
	stats, err := runner.Run(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Processed)
	assert.True(t, ok.dl)

	failing := &stubJob{stats: Stats{Processed: 1}, err: errors.New("boom")}
	_, err = runner.Run(context.Background(), failing)
	assert.EqualError(t, err, "boom")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues("stub", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues("stub", "failure")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.processed.WithLabelValues("stub")))
	assert.Positive(t, testutil.ToFloat64(metrics.lastSuccess.WithLabelValues("stub")))
}

func TestRunner_Run_NoTimeout(t *testing.T) {
	t.Parallel()

	job := &stubJob{}
	_, err := NewRunner(slog.New(slog.DiscardHandler), nil, 0).Run(context.Background(), job)

	require.NoError(t, err)
	assert.True(t, job.ran)
	assert.False(t, job.dl)
}

func TestScheduler_Add(t *testing.T) {
	t.Parallel()

	s := NewScheduler(slog.New(slog.DiscardHandler), NewRunner(slog.New(slog.DiscardHandler), nil, 0), nil)

	assert.NoError(t, s.Add("@every 1h", &stubJob{}))
	assert.Error(t, s.Add("not a schedule", &stubJob{}))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
