// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the per-engine collectors.
type metrics struct {
	rounds        prometheus.Counter
	roundDuration prometheus.Histogram
	classified    *prometheus.CounterVec
	terminated    prometheus.Counter
	spawned       prometheus.Counter
	rejected      prometheus.Counter
	retired       prometheus.Counter
	transitions   prometheus.Counter
	live          prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		rounds: f.NewCounter(prometheus.CounterOpts{
			Name: "poincare_rounds_total",
			Help: "Total engine rounds",
		}),
		roundDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "poincare_round_duration_seconds",
			Help:    "Engine round duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
		classified: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poincare_classified_total",
			Help: "Trajectories that reached a terminal state, by type",
		}, []string{"type"}),
		terminated: f.NewCounter(prometheus.CounterOpts{
			Name: "poincare_forced_terminations_total",
			Help: "Trajectories stopped by the integrator before they had enough punctures",
		}),
		spawned: f.NewCounter(prometheus.CounterOpts{
			Name: "poincare_spawned_total",
			Help: "Search trajectories spawned",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "poincare_rejected_total",
			Help: "Seeds the integrator rejected",
		}),
		retired: f.NewCounter(prometheus.CounterOpts{
			Name: "poincare_retired_total",
			Help: "Search trajectories retired",
		}),
		transitions: f.NewCounter(prometheus.CounterOpts{
			Name: "poincare_search_transitions_total",
			Help: "Active search state transitions",
		}),
		live: f.NewGauge(prometheus.GaugeOpts{
			Name: "poincare_live_trajectories",
			Help: "Live trajectories after the last round",
		}),
	}
}
