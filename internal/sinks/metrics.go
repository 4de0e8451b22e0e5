// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sinks

import (
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/worktrack"
	"github.com/prometheus/client_golang/prometheus"
)

var _ worktrack.Sink = (*Metrics)(nil)

// ErrRegisterMetrics is returned when the collectors cannot be registered.
var ErrRegisterMetrics = errors.New("failed to register progress metrics")

// Metrics counts progress in Prometheus collectors. Cancellation is delegated
// to the wrapped sink.
type Metrics struct {
	worktrack.Sink

	worked        prometheus.Counter
	expected      prometheus.Gauge
	started       prometheus.Counter
	done          prometheus.Counter
	cancellations prometheus.Counter
}

// NewMetrics wraps sink and registers its collectors on reg. A nil sink is
// replaced by a worktrack.NullSink.
func NewMetrics(reg prometheus.Registerer, sink worktrack.Sink) (*Metrics, error) {
	if sink == nil {
		sink = worktrack.NewNullSink()
	}

	m := &Metrics{
		Sink: sink,
		worked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "worktrack",
			Name:      "ticks_worked_total",
			Help:      "Ticks of work reported to the sink.",
		}),
		expected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "worktrack",
			Name:      "ticks_expected",
			Help:      "Ticks announced by the tasks begun on the sink.",
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "worktrack",
			Name:      "tasks_started_total",
			Help:      "Tasks begun on the sink.",
		}),
		done: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "worktrack",
			Name:      "tasks_done_total",
			Help:      "Done calls received by the sink.",
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "worktrack",
			Name:      "cancellations_total",
			Help:      "Cancellation requests received by the sink.",
		}),
	}

	for _, c := range []prometheus.Collector{m.worked, m.expected, m.started, m.done, m.cancellations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegisterMetrics, err)
		}
	}

	return m, nil
}

// BeginTask implements worktrack.Sink.
func (m *Metrics) BeginTask(name string, totalWork int) {
	m.started.Inc()
	m.expected.Add(float64(max(totalWork, 0)))
	m.Sink.BeginTask(name, totalWork)
}

// Worked implements worktrack.Sink.
func (m *Metrics) Worked(work int) {
	if work > 0 {
		m.worked.Add(float64(work))
	}

	m.Sink.Worked(work)
}

// Done implements worktrack.Sink.
func (m *Metrics) Done() {
	m.done.Inc()
	m.Sink.Done()
}

// SetCanceled implements worktrack.Sink.
func (m *Metrics) SetCanceled(canceled bool) {
	if canceled {
		m.cancellations.Inc()
	}

	m.Sink.SetCanceled(canceled)
}
