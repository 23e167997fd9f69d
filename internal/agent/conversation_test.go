package agent

import (
	"context"
	"errors"
	"testing"

	"leadvoice/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	replies      []string
	err          error
	instructions string
	seen         [][]llm.Message
}

func (p *scriptedProvider) ChatStream(ctx context.Context, instructions string, history []llm.Message, onToken func(string)) (string, error) {
	p.instructions = instructions
	p.seen = append(p.seen, append([]llm.Message(nil), history...))
	if p.err != nil {
		return "", p.err
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	onToken(reply)
	return reply, nil
}

func TestConversationGreetAndReply(t *testing.T) {
	prov := &scriptedProvider{replies: []string{"Kaunsa area?"}}
	c := NewConversation(prov, DefaultProfile("hi-IN", "arya"))

	greeting := c.Greet()
	assert.NotEmpty(t, greeting)

	var events []Event
	require.NoError(t, c.Run(context.Background(), "Mujhe flat chahiye", func(e Event) { events = append(events, e) }))

	assert.Equal(t, c.Profile().SystemPrompt, prov.instructions)
	require.Len(t, prov.seen, 1)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleAssistant, Content: greeting},
		{Role: llm.RoleUser, Content: "Mujhe flat chahiye"},
	}, prov.seen[0])

	assert.Equal(t, []Event{
		{Type: EventToken, Data: "Kaunsa area?"},
		{Type: EventDone, Data: "Kaunsa area?"},
	}, events)

	tr := c.Transcript()
	require.Len(t, tr, 3)
	assert.Equal(t, llm.RoleAssistant, tr[2].Role)
	assert.Equal(t, "Kaunsa area?", tr[2].Content)
	assert.False(t, tr[2].At.IsZero())
}

func TestConversationNoGreeting(t *testing.T) {
	p := DefaultProfile("", "")
	p.Greeting = ""
	c := NewConversation(&scriptedProvider{}, p)

	assert.Empty(t, c.Greet())
	assert.Empty(t, c.Transcript())
}

func TestConversationFallbackOnError(t *testing.T) {
	boom := errors.New("rate limited")
	p := DefaultProfile("", "")
	c := NewConversation(&scriptedProvider{err: boom}, p)

	var events []Event
	err := c.Run(context.Background(), "hello", func(e Event) { events = append(events, e) })
	assert.ErrorIs(t, err, boom)

	require.Len(t, events, 2)
	assert.Equal(t, EventError, events[0].Type)
	assert.Equal(t, Event{Type: EventDone, Data: p.FallbackMessage}, events[1])

	tr := c.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, p.FallbackMessage, tr[1].Content)
}

func TestTracedRunnerPassesThrough(t *testing.T) {
	c := NewConversation(&scriptedProvider{replies: []string{"ok"}}, DefaultProfile("", ""))
	r := WithTrace(c, "default")

	ctx := ContextWithRoom(ContextWithSessionID(context.Background(), "s1"), "test-default-1")
	var done string
	require.NoError(t, r.Run(ctx, "hi", func(e Event) {
		if e.Type == EventDone {
			done = e.Data.(string)
		}
	}))
	assert.Equal(t, "ok", done)
	assert.Equal(t, "s1", SessionIDFromContext(ctx))
	assert.Equal(t, "test-default-1", RoomFromContext(ctx))
}
