package agent

import (
	"context"
	"time"
)

type EventType string

const (
	EventToken EventType = "token"
	EventDone  EventType = "done"
	EventError EventType = "error"
)

type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Turn is one spoken or typed line of a conversation.
type Turn struct {
	Role    string
	Content string
	At      time.Time
}

// Runner answers one user utterance, emitting streamed tokens as they arrive.
type Runner interface {
	Run(ctx context.Context, message string, emit func(Event)) error
}
