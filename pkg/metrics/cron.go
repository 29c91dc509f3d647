package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "emporium"
	subsystem = "cron"
)

// Purge reasons reported by the cart expiry job.
const (
	PurgeReasonIdle  = "idle"
	PurgeReasonEmpty = "empty"
)

// CronMetrics collects run telemetry for the background worker. All
// methods are safe on a nil receiver so jobs can run unmetered.
type CronMetrics struct {
	runDuration *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	cartsPurged *prometheus.CounterVec
}

// NewCronMetrics registers the worker metrics on the provided registerer.
func NewCronMetrics(reg prometheus.Registerer) *CronMetrics {
	if reg == nil {
		return &CronMetrics{}
	}
	m := &CronMetrics{
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one scheduled job run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Completed job runs by outcome.",
		}, []string{"job", "status"}),
		cartsPurged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "carts_purged_total",
			Help:      "Carts removed by the expiry job, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.runDuration, m.runs, m.cartsPurged)
	return m
}

// ObserveRun records one finished run of the named job.
func (m *CronMetrics) ObserveRun(job string, duration time.Duration, err error) {
	if m == nil || m.runs == nil {
		return
	}
	label := jobLabel(job)
	m.runDuration.WithLabelValues(label).Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.runs.WithLabelValues(label, status).Inc()
}

// AddCartsPurged accumulates the number of carts a purge pass removed.
func (m *CronMetrics) AddCartsPurged(reason string, count int64) {
	if m == nil || m.cartsPurged == nil || count <= 0 {
		return
	}
	m.cartsPurged.WithLabelValues(reason).Add(float64(count))
}

func jobLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
