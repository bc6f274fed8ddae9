package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MatchesFormed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_matches_formed_total",
			Help: "Total matches formed from region create queues",
		},
	)
	MatchesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_matches_started_total",
			Help: "Total closed matches handed to the session launcher",
		},
	)
	TickRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_worker_ticks_total",
			Help: "Total worker ticks executed",
		},
	)
	TickFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_worker_tick_failures_total",
			Help: "Total worker ticks aborted early by a store error",
		},
	)
	OpenMatches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "matchmaking_open_matches",
			Help: "Matches currently open and waiting for players",
		},
	)
)

func init() {
	prometheus.MustRegister(MatchesFormed)
	prometheus.MustRegister(MatchesStarted)
	prometheus.MustRegister(TickRuns)
	prometheus.MustRegister(TickFailures)
	prometheus.MustRegister(OpenMatches)
}
