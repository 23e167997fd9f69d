package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/token"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req token.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	grant, err := s.tokens.Issue(r.Context(), req)
	if err != nil {
		// Missing credentials and signing failures are both fatal to the request.
		slog.Error("token generation failed", "error", err, "credentials_missing", errors.Is(err, token.ErrCredentialsMissing))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	profile := s.profiles.Resolve(r.Context(), r.PathValue("agent_id"))
	writeJSON(w, http.StatusOK, profile)
}

type invalidateResponse struct {
	Status  string  `json:"status"`
	AgentID *string `json:"agent_id"`
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	resp := invalidateResponse{Status: "invalidated"}
	id := r.URL.Query().Get("agent_id")
	if id != "" {
		resp.AgentID = &id
	}
	s.profiles.Invalidate(id)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": agent.Languages,
		"voices":    agent.Voices,
	})
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
