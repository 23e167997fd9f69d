// Package metrics exposes Prometheus collectors for both processes.
// Every method is safe on a nil *Collector so components can run without one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadvoice"

type Collector struct {
	gatherer prometheus.Gatherer

	profileLookups  *prometheus.CounterVec
	profileFailures *prometheus.CounterVec
	tokensIssued    *prometheus.CounterVec
	sessionsStarted *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
	leadDeliveries  *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// to keep registrations isolated.
func New(reg *prometheus.Registry) *Collector {
	f := promauto.With(reg)
	return &Collector{
		gatherer: reg,
		profileLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_lookups_total",
			Help:      "Agent profile lookups by outcome (hit, fetched, fallback).",
		}, []string{"outcome"}),
		profileFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_fetch_failures_total",
			Help:      "Failed workflow fetches by reason.",
		}, []string{"reason"}),
		tokensIssued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Room access tokens by result.",
		}, []string{"result"}),
		sessionsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Agent sessions started, by agent id.",
		}, []string{"agent_id"}),
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Agent sessions currently running.",
		}),
		leadDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_deliveries_total",
			Help:      "Lead summaries posted to the workflow webhook, by result.",
		}, []string{"result"}),
	}
}

func (c *Collector) ProfileLookup(outcome string) {
	if c == nil {
		return
	}
	c.profileLookups.WithLabelValues(outcome).Inc()
}

func (c *Collector) ProfileFetchFailed(reason string) {
	if c == nil {
		return
	}
	c.profileFailures.WithLabelValues(reason).Inc()
}

func (c *Collector) TokenIssued(ok bool) {
	if c == nil {
		return
	}
	c.tokensIssued.WithLabelValues(result(ok)).Inc()
}

func (c *Collector) SessionStarted(agentID string) {
	if c == nil {
		return
	}
	c.sessionsStarted.WithLabelValues(agentID).Inc()
	c.sessionsActive.Inc()
}

func (c *Collector) SessionEnded() {
	if c == nil {
		return
	}
	c.sessionsActive.Dec()
}

func (c *Collector) LeadDelivered(ok bool) {
	if c == nil {
		return
	}
	c.leadDeliveries.WithLabelValues(result(ok)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
