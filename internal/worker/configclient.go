package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/trace"
)

const configTimeout = 5 * time.Second

// ConfigClient fetches agent profiles from the web server.
type ConfigClient struct {
	baseURL  string
	http     *http.Client
	fallback agent.AgentProfile
}

func NewConfigClient(baseURL string, fallback agent.AgentProfile) *ConfigClient {
	return &ConfigClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		fallback: fallback,
		http: &http.Client{
			Timeout:   configTimeout,
			Transport: trace.Transport(nil),
		},
	}
}

// Profile returns the profile for agentID, or the fallback profile when the
// web server cannot be reached or answers with anything but a valid profile.
func (c *ConfigClient) Profile(ctx context.Context, agentID string) agent.AgentProfile {
	p, err := c.fetch(ctx, agentID)
	if err != nil {
		slog.Warn("using default profile", "agent_id", agentID, "error", err)
		return c.fallback.Clone()
	}
	return p
}

func (c *ConfigClient) fetch(ctx context.Context, agentID string) (agent.AgentProfile, error) {
	u := c.baseURL + "/api/config/" + url.PathEscape(agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return agent.AgentProfile{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return agent.AgentProfile{}, fmt.Errorf("fetching config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return agent.AgentProfile{}, fmt.Errorf("config endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return agent.AgentProfile{}, fmt.Errorf("reading config: %w", err)
	}
	return agent.DecodeProfile(body)
}
