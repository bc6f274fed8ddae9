package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	JoinAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_join_accepted_total",
			Help: "Total queue joins accepted",
		},
	)
	JoinRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaking_join_rejected_total",
			Help: "Total queue joins rejected, by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(JoinAccepted)
	prometheus.MustRegister(JoinRejected)
}
