package worker

import (
	"context"
	"log/slog"
	"time"

	"leadvoice/internal/agent"
)

const inboxSize = 16

// Session is the agent's presence in one room.
type Session struct {
	ID        string
	Room      string
	AgentID   string
	Profile   agent.AgentProfile
	Options   SessionOptions
	StartedAt time.Time

	room   Room
	conv   *agent.Conversation
	runner agent.Runner
	inbox  chan string
	cancel context.CancelFunc
	done   chan struct{}

	// guarded by Worker.mu
	active       bool
	endRequested bool
}

// deliver queues a user utterance. Messages arriving while the inbox is full
// are dropped.
func (s *Session) deliver(sender, text string) {
	select {
	case s.inbox <- text:
	default:
		slog.Warn("dropping chat message, agent busy", "room", s.Room, "sender", sender)
	}
}

// Transcript returns the conversation so far.
func (s *Session) Transcript() []agent.Turn {
	if s.conv == nil {
		return nil
	}
	return s.conv.Transcript()
}

func (s *Session) loop(ctx context.Context) {
	defer close(s.done)

	if greeting := s.conv.Greet(); greeting != "" {
		if err := s.room.PublishChat(greeting); err != nil {
			slog.Warn("greeting failed", "room", s.Room, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-s.inbox:
			s.answer(ctx, text)
		}
	}
}

func (s *Session) answer(ctx context.Context, text string) {
	err := s.runner.Run(ctx, text, func(e agent.Event) {
		if e.Type != agent.EventDone {
			return
		}
		reply, _ := e.Data.(string)
		if reply == "" {
			return
		}
		if err := s.room.PublishChat(reply); err != nil {
			slog.Warn("reply failed", "room", s.Room, "error", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		slog.Error("agent turn failed", "room", s.Room, "agent_id", s.AgentID, "error", err)
	}
}
