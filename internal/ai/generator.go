// Package ai provides the generative-text collaborator: subtask
// suggestions, project health narratives, and coordinator chat.
package ai

import "context"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Prompt is a request for generated text.
type Prompt struct {
	// System sets the model's instructions. It may be empty.
	System string

	// Messages alternate user and assistant turns, starting and ending
	// with a user turn.
	Messages []Message
}

// Text returns a prompt holding a single user message.
func Text(s string) Prompt {
	return Prompt{Messages: []Message{{Role: RoleUser, Content: s}}}
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
