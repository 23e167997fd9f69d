package n8n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileHandler(t *testing.T, gotAgent *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/agent-config", r.URL.Path)
		*gotAgent = r.URL.Query().Get("agent_id")
		p := agent.DefaultProfile("en-IN", "vidya")
		p.ID = *gotAgent
		p.Name = "From workflow"
		json.NewEncoder(w).Encode(p)
	}
}

func TestFetchSuccess(t *testing.T) {
	var got string
	srv := httptest.NewServer(profileHandler(t, &got))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "/webhook/agent-config", "/webhook/lead-capture")
	res := c.Fetch(context.Background(), "acme")

	require.True(t, res.OK(), "unexpected failure: %v", res.Err)
	assert.Equal(t, "acme", got)
	assert.Equal(t, "acme", res.Profile.ID)
	assert.Equal(t, "From workflow", res.Profile.Name)
	assert.Equal(t, "en-IN", res.Profile.Language)
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		reason  resolver.Reason
		status  int
	}{
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
			reason:  resolver.ReasonBadStatus,
			status:  http.StatusNotFound,
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id":"acme","name":"partial"}`))
			},
			reason: resolver.ReasonMalformedBody,
		},
		{
			name: "slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
			},
			reason: resolver.ReasonTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, "/webhook/agent-config", "", WithTimeout(50*time.Millisecond))
			res := c.Fetch(context.Background(), "acme")

			assert.False(t, res.OK())
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "/webhook/agent-config", "")
	res := c.Fetch(context.Background(), "acme")
	assert.Equal(t, resolver.ReasonUnreachable, res.Reason)
	assert.Error(t, res.Err)
}

func TestNilClient(t *testing.T) {
	c := NewClient("", "/webhook/agent-config", "/webhook/lead-capture")
	require.Nil(t, c)

	assert.Equal(t, resolver.ReasonNotConfigured, c.Fetch(context.Background(), "acme").Reason)
	assert.NoError(t, c.PostLead(context.Background(), Lead{}))
}

func TestPostLead(t *testing.T) {
	var got Lead
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook/lead-capture", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	lead := Lead{
		AgentID:         "acme",
		Room:            "test-acme-1700000000",
		StartedAt:       start,
		EndedAt:         start.Add(90 * time.Second),
		DurationSeconds: 90,
		Transcript:      []Turn{{Role: "assistant", Content: "hello", At: start}},
	}

	c := NewClient(srv.URL, "", "/webhook/lead-capture")
	require.NoError(t, c.PostLead(context.Background(), lead))
	assert.Equal(t, lead.AgentID, got.AgentID)
	assert.Equal(t, lead.Room, got.Room)
	assert.Equal(t, 90.0, got.DurationSeconds)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, "hello", got.Transcript[0].Content)
}

func TestPostLeadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "/webhook/lead-capture")
	assert.Error(t, c.PostLead(context.Background(), Lead{AgentID: "x"}))
}
