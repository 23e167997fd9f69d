// Package worker joins LiveKit rooms and runs one agent session per room.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/config"
	"leadvoice/internal/history"
	"leadvoice/internal/llm"
	"leadvoice/internal/metrics"
	"leadvoice/internal/n8n"

	"github.com/google/uuid"
)

var ErrSessionActive = errors.New("session already active for room")

const finishTimeout = 10 * time.Second

type ProfileSource interface {
	Profile(ctx context.Context, agentID string) agent.AgentProfile
}

type TranscriptStore interface {
	Save(ctx context.Context, t history.Transcript) error
}

type LeadSink interface {
	PostLead(ctx context.Context, lead n8n.Lead) error
}

type Option func(*Worker)

func WithTranscriptStore(s TranscriptStore) Option {
	return func(w *Worker) { w.store = s }
}

func WithLeadSink(l LeadSink) Option {
	return func(w *Worker) { w.leads = l }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(w *Worker) { w.metrics = m }
}

type Worker struct {
	connector Connector
	profiles  ProfileSource
	provider  llm.Provider
	llm       config.LLMConfig
	store     TranscriptStore
	leads     LeadSink
	metrics   *metrics.Collector
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(connector Connector, profiles ProfileSource, provider llm.Provider, llmCfg config.LLMConfig, opts ...Option) *Worker {
	w := &Worker{
		connector: connector,
		profiles:  profiles,
		provider:  provider,
		llm:       llmCfg,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Start joins room and starts an agent session in it. metadata is the room
// metadata if known; when empty the metadata seen on joining is used. The
// session outlives ctx and runs until End or Shutdown.
func (w *Worker) Start(ctx context.Context, room, metadata string) (*Session, error) {
	s := &Session{
		ID:    uuid.NewString(),
		Room:  room,
		inbox: make(chan string, inboxSize),
		done:  make(chan struct{}),
	}

	w.mu.Lock()
	if _, ok := w.sessions[room]; ok {
		w.mu.Unlock()
		return nil, ErrSessionActive
	}
	w.sessions[room] = s
	w.mu.Unlock()

	if err := w.setup(ctx, s, metadata); err != nil {
		w.mu.Lock()
		delete(w.sessions, room)
		w.mu.Unlock()
		return nil, err
	}

	runCtx := agent.ContextWithRoom(agent.ContextWithSessionID(context.WithoutCancel(ctx), s.ID), room)
	runCtx, cancel := context.WithCancel(runCtx)

	w.mu.Lock()
	if s.endRequested {
		delete(w.sessions, room)
		w.mu.Unlock()
		cancel()
		s.room.Disconnect()
		return nil, fmt.Errorf("room %s finished while joining", room)
	}
	s.cancel = cancel
	s.active = true
	w.mu.Unlock()

	go s.loop(runCtx)

	w.metrics.SessionStarted(s.AgentID)
	slog.Info("session started",
		"room", room,
		"session_id", s.ID,
		"agent_id", s.AgentID,
		"language", s.Options.STT.Language,
		"voice", s.Options.TTS.Speaker,
		"llm", s.Options.LLM.Model,
	)
	return s, nil
}

func (w *Worker) setup(ctx context.Context, s *Session, metadata string) error {
	r, err := w.connector.Connect(ctx, s.Room, s.deliver)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	s.room = r

	if metadata == "" {
		metadata = r.Metadata()
	}
	md, _ := agent.ParseRoomMetadata(metadata)

	s.AgentID = ExtractAgentID(metadata, s.Room)
	s.Profile = w.profiles.Profile(ctx, s.AgentID)
	s.Options = BuildOptions(s.Profile, md, w.llm)
	s.StartedAt = w.now()

	s.conv = agent.NewConversation(w.provider, s.Profile)
	s.runner = agent.WithTrace(s.conv, s.AgentID)
	return nil
}

// Session returns the active session for room.
func (w *Worker) Session(room string) (*Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[room]
	if !ok || !s.active {
		return nil, false
	}
	return s, true
}

// SessionInfo describes an active session.
type SessionInfo struct {
	ID        string         `json:"id"`
	Room      string         `json:"room"`
	AgentID   string         `json:"agent_id"`
	StartedAt time.Time      `json:"started_at"`
	Options   SessionOptions `json:"options"`
}

// Sessions lists the active sessions ordered by room.
func (w *Worker) Sessions() []SessionInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]SessionInfo, 0, len(w.sessions))
	for _, s := range w.sessions {
		if !s.active {
			continue
		}
		out = append(out, SessionInfo{
			ID:        s.ID,
			Room:      s.Room,
			AgentID:   s.AgentID,
			StartedAt: s.StartedAt,
			Options:   s.Options,
		})
	}
	slices.SortFunc(out, func(a, b SessionInfo) int { return strings.Compare(a.Room, b.Room) })
	return out
}

// End stops the session in room, persists its transcript and delivers the
// lead summary. It reports whether a session was running.
func (w *Worker) End(ctx context.Context, room string) bool {
	w.mu.Lock()
	s, ok := w.sessions[room]
	if ok && !s.active {
		// Still joining; Start tears it down once the join completes.
		s.endRequested = true
		ok = false
	}
	if ok {
		delete(w.sessions, room)
	}
	w.mu.Unlock()
	if !ok {
		return false
	}

	s.cancel()
	<-s.done
	s.room.Disconnect()
	w.metrics.SessionEnded()

	w.finish(context.WithoutCancel(ctx), s, w.now())
	return true
}

// Shutdown ends every active session.
// Sessions still joining are torn down when their join completes.
func (w *Worker) Shutdown(ctx context.Context) {
	w.mu.Lock()
	rooms := make([]string, 0, len(w.sessions))
	for room := range w.sessions {
		rooms = append(rooms, room)
	}
	w.mu.Unlock()

	for _, room := range rooms {
		w.End(ctx, room)
	}
}

func (w *Worker) finish(ctx context.Context, s *Session, ended time.Time) {
	ctx, cancel := context.WithTimeout(ctx, finishTimeout)
	defer cancel()

	turns := s.Transcript()
	log := slog.With("room", s.Room, "session_id", s.ID, "agent_id", s.AgentID)

	if w.store != nil {
		err := w.store.Save(ctx, history.Transcript{
			SessionID: s.ID,
			Room:      s.Room,
			AgentID:   s.AgentID,
			StartedAt: s.StartedAt,
			EndedAt:   ended,
			Turns:     turns,
		})
		if err != nil {
			log.Error("saving transcript failed", "error", err)
		}
	}

	if w.leads != nil {
		lead := n8n.Lead{
			AgentID:         s.AgentID,
			Room:            s.Room,
			StartedAt:       s.StartedAt,
			EndedAt:         ended,
			DurationSeconds: ended.Sub(s.StartedAt).Seconds(),
			Transcript:      make([]n8n.Turn, len(turns)),
		}
		for i, t := range turns {
			lead.Transcript[i] = n8n.Turn{Role: t.Role, Content: t.Content, At: t.At}
		}
		err := w.leads.PostLead(ctx, lead)
		w.metrics.LeadDelivered(err == nil)
		if err != nil {
			log.Warn("lead delivery failed", "error", err)
		}
	}

	log.Info("session ended", "turns", len(turns), "duration", ended.Sub(s.StartedAt).Round(time.Second))
}
