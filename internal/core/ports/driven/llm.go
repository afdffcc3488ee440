package driven

import "context"

// Chat roles understood by every generator.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMService turns a question plus retrieved context into an answer.
// It is optional; without one, answers fall back to the retrieved context.
type LLMService interface {
	// Chat sends the conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	ModelName() string

	// Ping checks reachability and credentials without running inference.
	Ping(ctx context.Context) error

	Close() error
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions bounds a single reply. Zero values leave the provider default.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// SplitSystem separates system turns from the rest of the conversation,
// joining multiple system turns with a blank line.
func SplitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var (
		system string
		rest   = make([]ChatMessage, 0, len(messages))
	)
	for _, m := range messages {
		if m.Role != RoleSystem {
			rest = append(rest, m)
			continue
		}
		if system != "" {
			system += "\n\n"
		}
		system += m.Content
	}
	return system, rest
}
