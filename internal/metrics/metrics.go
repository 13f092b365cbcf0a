package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_spins_total",
		Help: "Settled spins by outcome color.",
	}, []string{"color"})

	SpinFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_spin_failures_total",
		Help: "Rejected spin requests by reason.",
	}, []string{"reason"})

	SpinReplaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_spin_replays_total",
		Help: "Spin requests answered from a stored idempotent result.",
	})

	StakedCentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_staked_cents_total",
		Help: "Total stake debited, in cents.",
	})

	PaidOutCentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_paid_out_cents_total",
		Help: "Total winnings credited, in cents.",
	})

	SeedRotationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_seed_rotations_total",
		Help: "Server seed rotations.",
	})
)
