package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"leadvoice/internal/gateway"
	"leadvoice/internal/trace"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
)

const (
	eventRoomStarted  = "room_started"
	eventRoomFinished = "room_finished"
)

// EventReceiver extracts a verified webhook event from a request.
type EventReceiver func(r *http.Request) (*livekit.WebhookEvent, error)

// VerifiedReceiver checks the webhook signature against the LiveKit API key
// pair.
func VerifiedReceiver(apiKey, apiSecret string) EventReceiver {
	provider := auth.NewSimpleKeyProvider(apiKey, apiSecret)
	return func(r *http.Request) (*livekit.WebhookEvent, error) {
		return webhook.ReceiveWebhookEvent(r, provider)
	}
}

// Handler serves the worker's listener: LiveKit webhooks, a liveness probe
// and metrics.
func (w *Worker) Handler(receive EventReceiver) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /livekit/webhook", w.handleWebhook(receive))
	mux.HandleFunc("GET /healthz", w.handleHealth)
	mux.HandleFunc("GET /sessions", w.handleSessions)
	if w.metrics != nil {
		mux.Handle("GET /metrics", w.metrics.Handler())
	}
	return trace.Handler(gateway.Chain(mux, gateway.Recovery(), gateway.RequestLogger()), "worker")
}

func (w *Worker) handleHealth(rw http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	n := len(w.sessions)
	w.mu.Unlock()
	writeJSON(rw, http.StatusOK, map[string]any{"status": "ok", "sessions": n})
}

func (w *Worker) handleSessions(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]any{"sessions": w.Sessions()})
}

func (w *Worker) handleWebhook(receive EventReceiver) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		event, err := receive(r)
		if err != nil {
			slog.Warn("rejected webhook", "error", err)
			http.Error(rw, "invalid webhook", http.StatusUnauthorized)
			return
		}

		room := event.GetRoom()
		if room.GetName() == "" {
			rw.WriteHeader(http.StatusOK)
			return
		}

		// Sessions outlive the webhook request.
		ctx := context.WithoutCancel(r.Context())
		switch event.GetEvent() {
		case eventRoomStarted:
			go func() {
				_, err := w.Start(ctx, room.GetName(), room.GetMetadata())
				switch {
				case errors.Is(err, ErrSessionActive):
					slog.Debug("session already running", "room", room.GetName())
				case err != nil:
					slog.Error("starting session failed", "room", room.GetName(), "error", err)
				}
			}()
		case eventRoomFinished:
			go w.End(ctx, room.GetName())
		default:
			slog.Debug("ignoring webhook event", "event", event.GetEvent(), "room", room.GetName())
		}

		rw.WriteHeader(http.StatusOK)
	}
}

// Serve runs the worker listener until ctx is cancelled, then ends every
// session.
func (w *Worker) Serve(ctx context.Context, addr string, receive EventReceiver) error {
	err := gateway.Serve(ctx, addr, w.Handler(receive))
	w.Shutdown(context.WithoutCancel(ctx))
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
