package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// StageDurationSeconds is the wall time of one stage call, including the model round trip.
	StageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fruit",
		Subsystem: "inspector",
		Name:      "stage_duration_seconds",
		Help:      "Time spent in one analysis stage, labeled by stage.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"stage"})

	// StageTotal counts finished stages by outcome (ok, low_confidence, validation, gateway).
	StageTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fruit",
		Subsystem: "inspector",
		Name:      "stage_total",
		Help:      "Total number of analysis stages run, labeled by stage and result.",
	}, []string{"stage", "result"})

	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fruit",
		Subsystem: "inspector",
		Name:      "analyses_total",
		Help:      "Total number of pipeline runs, labeled by result.",
	}, []string{"result"})

	GatewayErrorTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fruit",
		Subsystem: "inspector",
		Name:      "gateway_error_total",
		Help:      "Total number of failed model gateway calls, labeled by provider and op.",
	}, []string{"provider", "op"})
)

// Register registers inspector metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			StageDurationSeconds,
			StageTotal,
			AnalysesTotal,
			GatewayErrorTotal,
		)
	})
}
