// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rightssphere",
		Name:      "alerts_total",
		Help:      "Alerts processed, by final status",
	}, []string{"status"})

	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rightssphere",
		Name:      "alert_dispatch_total",
		Help:      "Alert channel send attempts, by channel and outcome",
	}, []string{"channel", "outcome"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rightssphere",
		Name:      "alert_dispatch_duration_seconds",
		Help:      "Time spent sending one channel of an alert",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel"})

	GeneratorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rightssphere",
		Name:      "generator_calls_total",
		Help:      "Generative text requests, by kind and status",
	}, []string{"kind", "status"})

	PinUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rightssphere",
		Name:      "pin_uploads_total",
		Help:      "Content uploads to the pinning backend, by kind and status",
	}, []string{"kind", "status"})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rightssphere",
		Name:      "realtime_clients",
		Help:      "Connected alert websocket clients",
	})
)

// Status maps an error to the "ok"/"error" label value.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
