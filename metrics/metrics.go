// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about logical calls and
// their physical attempts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/treehill/reverso/client"
	"github.com/treehill/reverso/request"
)

// A Collector holds the metric vectors updated by the handlers that
// Install pushes onto a client handler group.
type Collector struct {
	// Attempts counts physical attempts by method and outcome.
	Attempts *prometheus.CounterVec
	// Retries counts retry waits by method.
	Retries *prometheus.CounterVec
	// Executions counts logical calls by method and result.
	Executions *prometheus.CounterVec
	// Duration observes the duration of logical calls, retries and
	// waits included.
	Duration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg. If reg
// is nil, prometheus.DefaultRegisterer is used. The namespace, if not
// empty, prefixes every metric name.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Total number of physical request attempts",
			},
			[]string{"method", "outcome"},
		),
		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of retries scheduled after a failed attempt",
			},
			[]string{"method"},
		),
		Executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of logical calls",
			},
			[]string{"method", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Logical call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	for _, m := range []prometheus.Collector{c.Attempts, c.Retries, c.Executions, c.Duration} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Install pushes handlers updating c onto g.
func (c *Collector) Install(g *client.HandlerGroup) {
	g.PushBack(client.AfterAttempt, client.HandlerFunc(c.attempt))
	g.PushBack(client.BeforeWait, client.HandlerFunc(c.retry))
	g.PushBack(client.AfterExecutionEnd, client.HandlerFunc(c.end))
}

func (c *Collector) attempt(_ client.Event, e *request.Execution) {
	c.Attempts.WithLabelValues(e.Plan.Method, e.Outcome().String()).Inc()
}

func (c *Collector) retry(_ client.Event, e *request.Execution) {
	c.Retries.WithLabelValues(e.Plan.Method).Inc()
}

func (c *Collector) end(_ client.Event, e *request.Execution) {
	result := "success"
	if e.Final != nil {
		result = "error"
	}
	c.Executions.WithLabelValues(e.Plan.Method, result).Inc()
	c.Duration.WithLabelValues(e.Plan.Method).Observe(e.Duration().Seconds())
}
