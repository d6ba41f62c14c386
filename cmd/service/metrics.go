package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus collectors on a private registry.
type metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	recoveredErrors *prometheus.CounterVec
	templateReloads *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_requests_total",
				Help: "Total number of requests processed",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "app_request_duration_seconds",
				Help:    "Request latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // ~1ms to ~16s
			},
		),
		recoveredErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_recovered_errors_total",
				Help: "Internal errors replaced by a diagnostic page",
			},
			[]string{"kind"},
		),
		templateReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_template_reloads_total",
				Help: "Template reloads by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.requestTotal,
		m.requestLatency,
		m.recoveredErrors,
		m.templateReloads,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
