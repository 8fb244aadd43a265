package view

import "github.com/prometheus/client_golang/prometheus"

var viewReadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "opinio_view_reads_total",
		Help: "View reads by cache result",
	},
	[]string{"cache"},
)

func init() {
	prometheus.MustRegister(viewReadsTotal)
}
