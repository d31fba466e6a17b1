package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quality_dashboard_sessions_created_total", Help: "Total dashboard sessions created.",
	})
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quality_dashboard_sessions_active", Help: "Dashboard sessions currently held in memory.",
	})
	SessionsEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_dashboard_sessions_evicted_total", Help: "Dashboard sessions removed from memory.",
	}, []string{"reason"})

	FetchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_dashboard_fetch_outcomes_total", Help: "Dataset fetch outcomes per source.",
	}, []string{"source", "result"})
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quality_dashboard_fetch_duration_seconds",
		Help:    "Dataset fetch latency per source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	RangeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_dashboard_range_changes_total", Help: "Date range changes by scope.",
	}, []string{"scope"})
	DroppedPlacements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_dashboard_layout_dropped_placements_total", Help: "Layout placements rejected by validation.",
	}, []string{"breakpoint"})
	DrillDowns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_dashboard_drilldowns_total", Help: "Drill-down views opened per category.",
	}, []string{"category"})
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quality_dashboard_exports_total", Help: "Widget exports and prints per format.",
	}, []string{"format"})
)
