package effect

import "github.com/prometheus/client_golang/prometheus"

var (
	effectDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "opinio",
			Subsystem: "effect",
			Name:      "duration_seconds",
			Help:      "Duration of effect executions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"effect", "outcome"},
	)

	effectInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "opinio",
			Subsystem: "effect",
			Name:      "inflight",
			Help:      "Effects currently running",
		},
	)

	effectBackpressureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opinio",
			Subsystem: "effect",
			Name:      "backpressure_total",
			Help:      "Effects rejected because no slot freed up in time",
		},
		[]string{"effect"},
	)
)

func init() {
	prometheus.MustRegister(effectDuration, effectInflight, effectBackpressureTotal)
}
