// Package metrics holds the Prometheus collectors for the position pipeline.
// They are registered on the default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeviceAuth = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "device_auth_total",
			Help: "Device login attempts by outcome",
		},
		[]string{"outcome"}, // success, degraded, failure
	)

	DeviceFetch = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "device_fetch_total",
			Help: "Device position reads by outcome",
		},
		[]string{"outcome"},
	)

	DeviceFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "device_fetch_duration_seconds",
			Help:    "Time spent acquiring one position, including re-authentication",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
		},
	)

	PortAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "port_alerts_total",
			Help: "Port arrival and departure alerts published",
		},
		[]string{"event"},
	)
)
