/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides Prometheus instrumentation for webhook dispatches
// and generative AI calls. Counters degrade gracefully: a registration
// conflict reuses the already-registered collector instead of failing.
package metrics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes recorded on the dispatches counter.
const (
	OutcomeIgnored      = "ignored"
	OutcomeUnauthorized = "unauthorized"
	OutcomeMalformed    = "malformed"
	OutcomeReplied      = "replied"
	OutcomeErrored      = "errored"
)

// Dispatch counts webhook dispatches by terminal outcome.
type Dispatch struct {
	outcomes *prometheus.CounterVec
}

// NewDispatch creates and registers the dispatch counters under namespace.
func NewDispatch(namespace string) *Dispatch {
	return &Dispatch{
		outcomes: registerCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Webhook dispatches by terminal outcome.",
		}, []string{"outcome"}),
	}
}

// RecordOutcome records one dispatch reaching the given terminal outcome.
func (d *Dispatch) RecordOutcome(ctx context.Context, outcome string) {
	if d == nil {
		return
	}
	d.outcomes.WithLabelValues(outcome).Inc()
	clog.FromContext(ctx).With("outcome", outcome).Debug("Dispatch complete")
}

// GenAI counts generative-text calls and token usage, with the model name as
// a dimension.
type GenAI struct {
	calls            *prometheus.CounterVec
	promptTokens     *prometheus.CounterVec
	completionTokens *prometheus.CounterVec
}

// NewGenAI creates and registers the GenAI counters under namespace.
func NewGenAI(namespace string) *GenAI {
	return &GenAI{
		calls: registerCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "genai_calls_total",
			Help:      "Generative-text API calls.",
		}, []string{"model"}),
		promptTokens: registerCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "genai_prompt_tokens_total",
			Help:      "Prompt tokens consumed.",
		}, []string{"model"}),
		completionTokens: registerCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "genai_completion_tokens_total",
			Help:      "Completion tokens consumed.",
		}, []string{"model"}),
	}
}

// RecordCall records one generative-text API call.
func (g *GenAI) RecordCall(_ context.Context, model string) {
	if g == nil {
		return
	}
	g.calls.WithLabelValues(model).Inc()
}

// RecordTokens records token usage for one call.
func (g *GenAI) RecordTokens(_ context.Context, model string, prompt, completion int64) {
	if g == nil {
		return
	}
	g.promptTokens.WithLabelValues(model).Add(float64(prompt))
	g.completionTokens.WithLabelValues(model).Add(float64(completion))
}

// registerCounterVec registers the counter on the default registry, reusing
// the existing collector when one with the same name is already registered.
func registerCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		slog.Warn("Failed to register counter, metrics will be incomplete", "metric", opts.Name, "error", err)
	}
	return cv
}
