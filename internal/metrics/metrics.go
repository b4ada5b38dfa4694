// Package metrics holds the Prometheus collectors shared by the LLM
// middleware, the scaffold service and the agent runner.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	LLMRequests     *prometheus.CounterVec
	LLMRetries      prometheus.Counter
	LLMLatency      *prometheus.HistogramVec
	ScaffoldRuns    *prometheus.CounterVec
	AgentSteps      prometheus.Histogram
	ValidationIssue *prometheus.CounterVec
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foxie",
			Name:      "llm_requests_total",
			Help:      "Generation calls by phase and outcome.",
		}, []string{"phase", "outcome"}),
		LLMRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foxie",
			Name:      "llm_retries_total",
			Help:      "Backoff retries after transient overload errors.",
		}),
		LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "foxie",
			Name:      "llm_request_seconds",
			Help:      "Generation call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"phase"}),
		ScaffoldRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foxie",
			Name:      "scaffold_runs_total",
			Help:      "Scaffolding runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		AgentSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "foxie",
			Name:      "agent_steps",
			Help:      "Reasoning steps used per agent run.",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}),
		ValidationIssue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foxie",
			Name:      "validation_issues_total",
			Help:      "Validator findings by severity.",
		}, []string{"severity"}),
	}
	r.reg.MustRegister(r.LLMRequests, r.LLMRetries, r.LLMLatency, r.ScaffoldRuns, r.AgentSteps, r.ValidationIssue)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer is used by tests to read collected values.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
