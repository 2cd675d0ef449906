// SPDX-License-Identifier: MIT

// Package metrics exposes batch and shared-region instrumentation as
// Prometheus collectors registered on a caller-owned registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hopshare"

// Task status label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// knownStrategies bounds the strategy label; anything else is "unknown".
var knownStrategies = map[string]bool{
	"copy":      true,
	"shared":    true,
	"delay":     true,
	"factorize": true,
}

func strategyLabel(s string) string {
	if knownStrategies[s] {
		return s
	}
	return "unknown"
}

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	tasks        *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	batchWall    *prometheus.HistogramVec
	regionBytes  prometheus.Gauge
	viewsOpen    prometheus.Gauge
}

// New registers the collectors on reg. Panics if they are already registered there.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		tasks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Tasks harvested by strategy and status.",
		}, []string{"strategy", "status"}),
		taskDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Worker-reported task run time.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"strategy"}),
		batchWall: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_wall_seconds",
			Help:      "Wall clock from first dispatch to last result.",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 2, 16),
		}, []string{"strategy"}),
		regionBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shared_region_bytes",
			Help:      "Bytes currently mapped by live shared regions.",
		}),
		viewsOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shared_views_open",
			Help:      "Worker attachments to shared regions currently open.",
		}),
	}
}

// ObserveTask records one harvested task.
func (m *Metrics) ObserveTask(strategy string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	strategy = strategyLabel(strategy)
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	m.tasks.WithLabelValues(strategy, status).Inc()
	m.taskDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveBatch records a batch wall time.
func (m *Metrics) ObserveBatch(strategy string, wall time.Duration) {
	if m == nil {
		return
	}
	m.batchWall.WithLabelValues(strategyLabel(strategy)).Observe(wall.Seconds())
}

// RegionCreated adds a live region of size bytes.
func (m *Metrics) RegionCreated(size int) {
	if m == nil {
		return
	}
	m.regionBytes.Add(float64(size))
}

// RegionReleased removes a region of size bytes.
func (m *Metrics) RegionReleased(size int) {
	if m == nil {
		return
	}
	m.regionBytes.Sub(float64(size))
}

// ViewOpened counts a worker attachment.
func (m *Metrics) ViewOpened() {
	if m == nil {
		return
	}
	m.viewsOpen.Inc()
}

// ViewClosed uncounts a worker attachment.
func (m *Metrics) ViewClosed() {
	if m == nil {
		return
	}
	m.viewsOpen.Dec()
}
