// Package n8n talks to the workflow-automation webhooks: the agent-config
// webhook that serves profiles and the lead-capture webhook that receives
// call summaries.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/resolver"
	"leadvoice/internal/trace"
)

// DefaultTimeout bounds every webhook call.
const DefaultTimeout = 5 * time.Second

const maxBodySize = 1 << 20

type Client struct {
	baseURL    string
	configPath string
	leadPath   string
	http       *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a client for the webhooks under baseURL. It returns nil
// when baseURL is empty so callers can treat the integration as disabled.
func NewClient(baseURL, configPath, leadPath string, opts ...Option) *Client {
	if baseURL == "" {
		return nil
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		configPath: configPath,
		leadPath:   leadPath,
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: trace.Transport(nil),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements resolver.Source against the agent-config webhook. The
// agent id travels as the agent_id query parameter.
func (c *Client) Fetch(ctx context.Context, agentID string) resolver.FetchResult {
	if c == nil {
		return resolver.Failed(resolver.ReasonNotConfigured, nil)
	}

	u, err := url.Parse(c.baseURL + c.configPath)
	if err != nil {
		return resolver.Failed(resolver.ReasonUnreachable, fmt.Errorf("building config url: %w", err))
	}
	q := u.Query()
	q.Set("agent_id", agentID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return resolver.Failed(resolver.ReasonUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return resolver.Failed(classify(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		res := resolver.Failed(resolver.ReasonBadStatus, fmt.Errorf("unexpected status %d", resp.StatusCode))
		res.StatusCode = resp.StatusCode
		return res
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resolver.Failed(classify(err), fmt.Errorf("reading body: %w", err))
	}

	profile, err := agent.DecodeProfile(body)
	if err != nil {
		return resolver.Failed(resolver.ReasonMalformedBody, err)
	}
	return resolver.Fetched(profile)
}

// Turn is one line of a call transcript.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Lead is the call summary delivered to the lead-capture webhook.
type Lead struct {
	AgentID         string    `json:"agent_id"`
	Room            string    `json:"room"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Transcript      []Turn    `json:"transcript"`
}

// PostLead delivers lead to the lead-capture webhook once, without retries.
func (c *Client) PostLead(ctx context.Context, lead Lead) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encoding lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.leadPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting lead: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("lead capture returned status %d", resp.StatusCode)
	}
	return nil
}

func classify(err error) resolver.Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return resolver.ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return resolver.ReasonTimeout
	}
	return resolver.ReasonUnreachable
}
