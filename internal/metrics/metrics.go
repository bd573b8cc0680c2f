package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoundsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numguess_rounds_started_total",
			Help: "Rounds started, by mode and difficulty",
		},
		[]string{"mode", "difficulty"},
	)
	Guesses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numguess_guesses_total",
			Help: "Guesses submitted, by feedback",
		},
		[]string{"feedback"},
	)
	RoundsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numguess_rounds_finished_total",
			Help: "Rounds that ended, by outcome (won|timed_out)",
		},
		[]string{"outcome"},
	)
	MatchesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numguess_matches_finished_total",
			Help: "Two-player matches that ended, by result",
		},
		[]string{"result"},
	)
	ActiveTables = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "numguess_active_tables",
			Help: "Tables currently held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(RoundsStarted)
	prometheus.MustRegister(Guesses)
	prometheus.MustRegister(RoundsFinished)
	prometheus.MustRegister(MatchesFinished)
	prometheus.MustRegister(ActiveTables)
}
