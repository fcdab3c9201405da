// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus metrics for the HTTP server, language
// negotiation and SEO bundle resolution.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/version"
)

// SEO resolution outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeNoVariant = "no_variant"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// ServerMetrics owns a private registry. Labels are limited to bounded sets
// (method, route pattern, status, source, entity, outcome).
type ServerMetrics struct {
	reg     *prometheus.Registry
	handler http.Handler

	inflight      prometheus.Gauge
	reqTotal      *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	rateLimited   prometheus.Counter
	buildInfo     *prometheus.GaugeVec
	negotiations  *prometheus.CounterVec
	seoResolution *prometheus.CounterVec
	publications  *prometheus.CounterVec
}

// New returns a fresh registry with the Go and process collectors and the
// application metrics registered.
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_total",
			Help: "Total requests rejected by the rate limiter",
		}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"version", "commit", "build_time"}),
		negotiations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "language_negotiations_total",
			Help: "Language decisions by the signal that produced them",
		}, []string{"source"}),
		seoResolution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seo_bundle_resolutions_total",
			Help: "SEO bundle resolutions by entity type and outcome",
		}, []string{"entity", "outcome"}),
		publications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "publication_transitions_total",
			Help: "Publish and unpublish requests by target and action",
		}, []string{"target", "action"}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.rateLimited,
		m.buildInfo,
		m.negotiations,
		m.seoResolution,
		m.publications,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}

// Registry returns the underlying registry.
func (m *ServerMetrics) Registry() *prometheus.Registry {
	return m.reg
}

// SetBuildInfo is called once at startup.
func (m *ServerMetrics) SetBuildInfo(vi version.Info) {
	m.buildInfo.WithLabelValues(vi.Version, vi.GitCommit, vi.BuildTime).Set(1)
}

// IncRateLimited counts a request rejected by the rate limiter.
func (m *ServerMetrics) IncRateLimited() {
	m.rateLimited.Inc()
}

// ObserveNegotiation counts a language decision by its source.
func (m *ServerMetrics) ObserveNegotiation(d lang.Decision) {
	m.negotiations.WithLabelValues(string(d.Source)).Inc()
}

// ObserveSEO counts one SEO bundle resolution.
func (m *ServerMetrics) ObserveSEO(entity, outcome string) {
	m.seoResolution.WithLabelValues(entity, outcome).Inc()
}

// ObservePublication counts one successful publish or unpublish request.
func (m *ServerMetrics) ObservePublication(target, action string) {
	m.publications.WithLabelValues(target, action).Inc()
}
