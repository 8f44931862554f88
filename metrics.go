package undo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undo_operations_total",
		Help: "the number of timeline operations performed, by instance and kind",
	}, []string{"instance", "op"})
	branchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undo_branches_created_total",
		Help: "the number of branches a history has created",
	}, []string{"instance"})
	evictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undo_entries_evicted_total",
		Help: "the number of entries dropped from the front of a record by limit eviction",
	}, []string{"instance"})
	prunedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undo_branches_pruned_total",
		Help: "the number of branches removed transitively by limit eviction",
	}, []string{"instance"})
	savedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "undo_saved_state",
		Help: "1 if the instance's target is currently at its saved position, else 0",
	}, []string{"instance"})
)

// metricsSet is the opt-in handle a Record or History holds once
// WithMetrics(instance) is used; a nil *metricsSet means metrics are
// disabled and every method below is a no-op against it.
type metricsSet struct {
	instance string
}

func newMetricsSet(instance string) *metricsSet {
	return &metricsSet{instance: instance}
}

func (m *metricsSet) op(name string) {
	if m == nil {
		return
	}
	opsTotal.WithLabelValues(m.instance, name).Inc()
}

func (m *metricsSet) branch() {
	if m == nil {
		return
	}
	branchesTotal.WithLabelValues(m.instance).Inc()
}

func (m *metricsSet) evicted() {
	if m == nil {
		return
	}
	evictionsTotal.WithLabelValues(m.instance).Inc()
}

func (m *metricsSet) pruned() {
	if m == nil {
		return
	}
	prunedTotal.WithLabelValues(m.instance).Inc()
}

func (m *metricsSet) saved(isSaved bool) {
	if m == nil {
		return
	}
	v := 0.0
	if isSaved {
		v = 1.0
	}
	savedGauge.WithLabelValues(m.instance).Set(v)
}
