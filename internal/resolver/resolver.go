// Package resolver keeps the process-wide cache of agent profiles and decides
// between a cached profile, a freshly fetched one and the built-in default.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"leadvoice/internal/agent"
	"leadvoice/internal/metrics"
	"leadvoice/internal/trace"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Reason says why a fetch did not produce a profile.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotConfigured Reason = "not_configured"
	ReasonUnreachable   Reason = "unreachable"
	ReasonTimeout       Reason = "timeout"
	ReasonBadStatus     Reason = "bad_status"
	ReasonMalformedBody Reason = "malformed_body"
)

// FetchResult is the outcome of one attempt against an external source:
// either a profile (Reason == ReasonNone) or a failure reason with detail.
type FetchResult struct {
	Profile    agent.AgentProfile
	Reason     Reason
	StatusCode int
	Err        error
}

func (r FetchResult) OK() bool { return r.Reason == ReasonNone }

func Fetched(p agent.AgentProfile) FetchResult {
	return FetchResult{Profile: p}
}

func Failed(reason Reason, err error) FetchResult {
	return FetchResult{Reason: reason, Err: err}
}

// Source retrieves a profile from outside the process. Implementations make
// at most one attempt and never panic.
type Source interface {
	Fetch(ctx context.Context, agentID string) FetchResult
}

type Option func(*Resolver)

func WithMetrics(c *metrics.Collector) Option {
	return func(r *Resolver) { r.metrics = c }
}

// Resolver maps agent ids to profiles. Only successful fetches are cached;
// the default profile lives outside the cache and is never evicted.
type Resolver struct {
	source  Source
	def     agent.AgentProfile
	metrics *metrics.Collector

	mu    sync.RWMutex
	cache map[string]agent.AgentProfile
	// epoch moves on clear-all, versions on single-id invalidation. A fetch
	// only lands in the cache if neither moved while it was in flight.
	epoch    uint64
	versions map[string]uint64

	flights singleflight.Group
}

// New returns a resolver falling back to def. A nil source means no external
// configuration source is configured.
func New(def agent.AgentProfile, source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:   source,
		def:      def.Clone(),
		cache:    make(map[string]agent.AgentProfile),
		versions: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the profile for agentID. It never fails: when the profile is
// neither cached nor fetchable the default profile is returned.
func (r *Resolver) Resolve(ctx context.Context, agentID string) agent.AgentProfile {
	id := agent.NormalizeID(agentID)

	ctx, span := trace.Tracer().Start(ctx, "resolver.resolve",
		oteltrace.WithAttributes(attribute.String("agent.id", id)),
	)
	defer span.End()

	if p, ok := r.lookup(id); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		r.metrics.ProfileLookup("hit")
		return p
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, _, shared := r.flights.Do(id, func() (any, error) {
		if p, ok := r.lookup(id); ok {
			return Fetched(p), nil
		}
		return r.fetchAndStore(context.WithoutCancel(ctx), id), nil
	})
	res := v.(FetchResult)
	if shared {
		slog.Debug("profile fetch shared", "agent_id", id)
	}

	switch res.Reason {
	case ReasonNone:
		r.metrics.ProfileLookup("fetched")
		return res.Profile.Clone()
	case ReasonNotConfigured:
		slog.Debug("no workflow source configured, using default profile", "agent_id", id)
	case ReasonUnreachable:
		slog.Warn("workflow unreachable, using default profile", "agent_id", id, "error", res.Err)
	case ReasonTimeout:
		slog.Warn("workflow timed out, using default profile", "agent_id", id, "error", res.Err)
	case ReasonBadStatus:
		slog.Warn("workflow returned bad status, using default profile", "agent_id", id, "status", res.StatusCode)
	case ReasonMalformedBody:
		slog.Warn("workflow returned malformed profile, using default profile", "agent_id", id, "error", res.Err)
	default:
		slog.Warn("profile fetch failed, using default profile", "agent_id", id, "reason", res.Reason, "error", res.Err)
	}
	span.SetAttributes(attribute.String("fetch.failure", string(res.Reason)))
	r.metrics.ProfileLookup("fallback")
	return r.def.Clone()
}

// Invalidate drops the cached profile for agentID, or every cached profile
// when agentID is empty. The default profile is unaffected.
func (r *Resolver) Invalidate(agentID string) {
	id := strings.TrimSpace(agentID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		r.epoch++
		clear(r.cache)
		clear(r.versions)
		slog.Info("profile cache cleared")
		return
	}
	r.versions[id]++
	delete(r.cache, id)
	slog.Info("profile cache entry invalidated", "agent_id", id)
}

// Default returns a copy of the built-in profile.
func (r *Resolver) Default() agent.AgentProfile {
	return r.def.Clone()
}

// Len reports how many profiles are cached.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Resolver) lookup(id string) (agent.AgentProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.cache[id]
	if !ok {
		return agent.AgentProfile{}, false
	}
	return p.Clone(), true
}

func (r *Resolver) fetchAndStore(ctx context.Context, id string) FetchResult {
	if r.source == nil {
		return Failed(ReasonNotConfigured, nil)
	}

	r.mu.RLock()
	epoch, version := r.epoch, r.versions[id]
	r.mu.RUnlock()

	res := r.source.Fetch(ctx, id)
	if !res.OK() {
		if res.Reason != ReasonNotConfigured {
			r.metrics.ProfileFetchFailed(string(res.Reason))
		}
		return res
	}

	r.mu.Lock()
	// An invalidation of this id during the fetch wins; the next lookup
	// fetches again.
	if r.epoch == epoch && r.versions[id] == version {
		r.cache[id] = res.Profile.Clone()
	}
	r.mu.Unlock()

	slog.Info("loaded profile from workflow", "agent_id", id, "name", res.Profile.Name)
	return res
}
