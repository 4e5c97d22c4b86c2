// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package profiler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts profiled calls. A nil *Metrics is valid and counts nothing.
type Metrics struct {
	calls         *prometheus.CounterVec
	thrown        prometheus.Counter
	callbackCalls prometheus.Counter
	promiseCalls  prometheus.Counter
}

// NewMetrics creates counters registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "berry_profiled_calls_total",
			Help: "Number of profiled calls by calling convention",
		}, []string{"shape"}),
		thrown: f.NewCounter(prometheus.CounterOpts{
			Name: "berry_profiled_failures_total",
			Help: "Number of profiled calls that returned an error or panicked",
		}),
		callbackCalls: f.NewCounter(prometheus.CounterOpts{
			Name: "berry_callback_invocations_total",
			Help: "Number of observed callback invocations",
		}),
		promiseCalls: f.NewCounter(prometheus.CounterOpts{
			Name: "berry_promise_settlements_total",
			Help: "Number of observed thenable settlements",
		}),
	}
}

func (m *Metrics) record(r *Record) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(r.Shape.String()).Inc()
	if r.ThrownError != nil {
		m.thrown.Inc()
	}
}

func (m *Metrics) callback() {
	if m == nil {
		return
	}
	m.callbackCalls.Inc()
}

func (m *Metrics) promise() {
	if m == nil {
		return
	}
	m.promiseCalls.Inc()
}
