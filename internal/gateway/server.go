package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/metrics"
	"leadvoice/internal/token"
	"leadvoice/internal/trace"
)

// ProfileResolver is the part of resolver.Resolver the server needs.
type ProfileResolver interface {
	Resolve(ctx context.Context, agentID string) agent.AgentProfile
	Invalidate(agentID string)
}

type TokenIssuer interface {
	Issue(ctx context.Context, req token.Request) (token.Grant, error)
}

type Server struct {
	profiles ProfileResolver
	tokens   TokenIssuer
	metrics  *metrics.Collector
	mux      *http.ServeMux
	now      func() time.Time
}

func NewServer(profiles ProfileResolver, tokens TokenIssuer, m *metrics.Collector) *Server {
	s := &Server{
		profiles: profiles,
		tokens:   tokens,
		metrics:  m,
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/token", s.handleToken)
	s.mux.HandleFunc("GET /api/config", s.handleConfig)
	s.mux.HandleFunc("GET /api/config/{agent_id}", s.handleConfig)
	s.mux.HandleFunc("POST /api/invalidate-cache", s.handleInvalidate)
	s.mux.HandleFunc("GET /api/languages", s.handleLanguages)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.HandleFunc("GET /{$}", s.handleUI)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(s.mux,
		Recovery(),
		RequestLogger(),
		CORS(),
		func(next http.Handler) http.Handler { return trace.Handler(next, "leadvoice.server") },
	)
}

// Serve runs h on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http server", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return Serve(ctx, addr, s.Handler())
}
