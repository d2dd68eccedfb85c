package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the allocation engine.
type Metrics struct {
	CommitsTotal    prometheus.Counter
	RejectionsTotal *prometheus.CounterVec
	ResetsTotal     prometheus.Counter
	RosterRows      prometheus.Gauge
}

// New creates and registers all allocation metrics.
func New() *Metrics {
	return &Metrics{
		CommitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coop_assignments_committed_total",
			Help: "Total number of placement assignments committed",
		}),
		RejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coop_commit_rejections_total",
			Help: "Total number of rejected commit attempts by reason",
		}, []string{"reason"}),
		ResetsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coop_assignment_resets_total",
			Help: "Total number of administrative assignment resets",
		}),
		RosterRows: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "coop_roster_rows",
			Help: "Number of roster rows in the active snapshot",
		}),
	}
}

// RecordRejection increments the rejection counter for a reason.
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordCommit increments the committed-assignments counter.
func (m *Metrics) RecordCommit() {
	if m == nil {
		return
	}
	m.CommitsTotal.Inc()
}

// RecordReset increments the reset counter.
func (m *Metrics) RecordReset() {
	if m == nil {
		return
	}
	m.ResetsTotal.Inc()
}

// SetRosterRows records the size of the active roster snapshot.
func (m *Metrics) SetRosterRows(n int) {
	if m == nil {
		return
	}
	m.RosterRows.Set(float64(n))
}
