package hub

import "github.com/prometheus/client_golang/prometheus"

var (
	subscribersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "instanced",
			Subsystem: "hub",
			Name:      "subscribers",
			Help:      "Currently open event stream subscriptions",
		},
	)

	publishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "instanced",
			Subsystem: "hub",
			Name:      "published_total",
			Help:      "Total number of broadcast messages by source",
		},
		[]string{"source"},
	)

	droppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "instanced",
			Subsystem: "hub",
			Name:      "dropped_total",
			Help:      "Messages dropped because a subscriber buffer was full",
		},
	)
)

func init() {
	prometheus.MustRegister(subscribersGauge, publishedTotal, droppedTotal)
}
