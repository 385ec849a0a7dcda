package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records background job executions.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	processed   *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
}

// NewMetrics creates the job metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "iati_job_runs_total",
			Help: "Job runs by job and status (success/failure).",
		}, []string{"job", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iati_job_duration_seconds",
			Help:    "Duration of job runs in seconds.",
			Buckets: []float64{0.1, 1, 5, 30, 60, 300, 900},
		}, []string{"job"}),
		processed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "iati_job_items_processed_total",
			Help: "Activities processed by job.",
		}, []string{"job"}),
		lastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "iati_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run.",
		}, []string{"job"}),
	}
}

func (m *Metrics) record(job string, stats Stats, seconds float64, err error) {
	m.duration.WithLabelValues(job).Observe(seconds)
	m.processed.WithLabelValues(job).Add(float64(stats.Processed))
	if err != nil {
		m.runs.WithLabelValues(job, "failure").Inc()
		return
	}
	m.runs.WithLabelValues(job, "success").Inc()
	m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}
