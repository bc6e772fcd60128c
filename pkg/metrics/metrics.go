package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "askdb_build_info",
			Help: "Build information of askdb",
		},
		[]string{"version", "commit", "date"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_agent_runs_total",
			Help: "Agent runs by outcome (ok or aborted)",
		},
		[]string{"outcome"},
	)

	ExecutionAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "askdb_agent_execution_attempts_total",
			Help: "SQL execution attempts across all runs",
		},
	)

	CorrectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "askdb_agent_corrections_total",
			Help: "Query correction rounds across all runs",
		},
	)
)
