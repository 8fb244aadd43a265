package event

import "github.com/prometheus/client_golang/prometheus"

var (
	busEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opinio",
			Subsystem: "bus",
			Name:      "events_total",
			Help:      "Events handled by kind, nested events included",
		},
		[]string{"kind"},
	)

	busErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opinio",
			Subsystem: "bus",
			Name:      "errors_total",
			Help:      "Dispatch failures by reason",
		},
		[]string{"reason"},
	)

	busDispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "opinio",
			Subsystem: "bus",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of synchronous dispatch processing in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(busEventsTotal, busErrorsTotal, busDispatchDuration)
}
