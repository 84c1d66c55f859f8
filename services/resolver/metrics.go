// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "answerdesk"

// Metrics holds the Prometheus metrics for question resolution.
//
// # Fields
//
//   - ResolutionsTotal: Counter of resolved questions by answering tier
//     (kb_exact, kb_fuzzy, cache, groq, openai, anthropic).
//   - MissesTotal: Counter of questions no tier could answer.
//   - ResolutionSeconds: Histogram of end-to-end resolution latency by tier.
//
// # Thread Safety
//
// All operations are thread-safe via Prometheus's internal locking.
type Metrics struct {
	ResolutionsTotal  *prometheus.CounterVec
	MissesTotal       prometheus.Counter
	ResolutionSeconds *prometheus.HistogramVec
}

// NewMetrics creates and registers resolution metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in production; tests
// use a fresh registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "resolutions_total",
				Help:      "Total questions answered, by answering tier",
			},
			[]string{"tier"},
		),
		MissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "resolution_misses_total",
				Help:      "Total questions no tier could answer",
			},
		),
		ResolutionSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "resolution_seconds",
				Help:      "End-to-end resolution latency in seconds, by tier",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tier"},
		),
	}
}

// RecordHit records a successful resolution on the given tier.
func (m *Metrics) RecordHit(tier Tier, seconds float64) {
	m.ResolutionsTotal.WithLabelValues(string(tier)).Inc()
	m.ResolutionSeconds.WithLabelValues(string(tier)).Observe(seconds)
}

// RecordMiss records a question that exhausted every tier.
func (m *Metrics) RecordMiss(seconds float64) {
	m.MissesTotal.Inc()
	m.ResolutionSeconds.WithLabelValues("miss").Observe(seconds)
}
