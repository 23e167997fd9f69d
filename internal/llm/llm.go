package llm

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn fed back to the model.
type Message struct {
	Role    string
	Content string
}

type Provider interface {
	// ChatStream answers the conversation in history under the given
	// instructions, calling onToken for each streamed text delta, and returns
	// the full reply.
	ChatStream(ctx context.Context, instructions string, history []Message, onToken func(string)) (string, error)
}
