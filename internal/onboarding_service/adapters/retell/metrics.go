package retell

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "retell_requests_total",
			Help:      "Total requests sent to the Retell API.",
		},
		[]string{"operation", "status_code"}, // status_code is "transport_error" when no response arrived
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onboarding",
			Name:      "retell_request_duration_seconds",
			Help:      "Duration of Retell API requests.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)
)
