package agent

import (
	"context"
	"slices"
	"sync"
	"time"

	"leadvoice/internal/llm"
)

// Conversation is the running dialogue between one caller and one profile.
// It is safe for concurrent use; turns are answered one at a time.
type Conversation struct {
	provider llm.Provider
	profile  AgentProfile
	now      func() time.Time

	run   sync.Mutex // serializes Run
	mu    sync.Mutex // guards turns
	turns []Turn
}

func NewConversation(provider llm.Provider, profile AgentProfile) *Conversation {
	return &Conversation{
		provider: provider,
		profile:  profile.Clone(),
		now:      time.Now,
	}
}

func (c *Conversation) Profile() AgentProfile { return c.profile.Clone() }

// Greet records the profile greeting as the opening assistant turn and
// returns it. It returns "" when the profile has no greeting.
func (c *Conversation) Greet() string {
	if c.profile.Greeting == "" {
		return ""
	}
	c.append(llm.RoleAssistant, c.profile.Greeting)
	return c.profile.Greeting
}

func (c *Conversation) Run(ctx context.Context, message string, emit func(Event)) error {
	c.run.Lock()
	defer c.run.Unlock()

	c.append(llm.RoleUser, message)

	reply, err := c.provider.ChatStream(ctx, c.profile.SystemPrompt, c.history(), func(token string) {
		emit(Event{Type: EventToken, Data: token})
	})
	if err != nil {
		emit(Event{Type: EventError, Data: err.Error()})
		if c.profile.FallbackMessage != "" {
			c.append(llm.RoleAssistant, c.profile.FallbackMessage)
			emit(Event{Type: EventDone, Data: c.profile.FallbackMessage})
		}
		return err
	}

	c.append(llm.RoleAssistant, reply)
	emit(Event{Type: EventDone, Data: reply})
	return nil
}

// Transcript returns a copy of every turn so far.
func (c *Conversation) Transcript() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.turns)
}

func (c *Conversation) append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{Role: role, Content: content, At: c.now()})
}

func (c *Conversation) history() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]llm.Message, len(c.turns))
	for i, t := range c.turns {
		msgs[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return msgs
}
