package lifecycle

import "github.com/prometheus/client_golang/prometheus"

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "instanced",
			Subsystem: "lifecycle",
			Name:      "commands_total",
			Help:      "Total number of accepted lifecycle commands",
		},
		[]string{"op"},
	)

	commitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "instanced",
			Subsystem: "lifecycle",
			Name:      "commits_total",
			Help:      "Total number of executed commits by outcome",
		},
		[]string{"op", "result"},
	)

	pendingCommands = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "instanced",
			Subsystem: "lifecycle",
			Name:      "pending",
			Help:      "Accepted commands waiting for their commit",
		},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal, commitsTotal, pendingCommands)
}
