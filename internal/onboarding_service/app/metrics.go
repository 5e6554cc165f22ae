package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsFinishedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "runs_finished_total",
			Help:      "Total provisioning runs by terminal status.",
		},
		[]string{"status"}, // completed, completed_with_omissions, failed
	)

	runsRejectedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "runs_rejected_total",
			Help:      "Runs refused because the concurrency limit was reached.",
		},
	)

	stepOutcomesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "step_outcomes_total",
			Help:      "Pipeline step outcomes.",
		},
		[]string{"step", "status"},
	)

	stepDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onboarding",
			Name:      "step_duration_seconds",
			Help:      "Duration of pipeline steps.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	runDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "onboarding",
			Name:      "run_duration_seconds",
			Help:      "Duration of whole provisioning runs.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 900},
		},
	)

	phoneAttemptsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "phone_purchase_attempts_total",
			Help:      "Phone number purchase attempts per candidate area code.",
		},
		[]string{"result"}, // success, failure
	)

	activeRunsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "onboarding",
			Name:      "active_runs",
			Help:      "Provisioning runs currently executing.",
		},
	)
)
