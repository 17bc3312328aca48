package ai

import "sync"

const defaultMaxMessages = 20

// ConversationContext maintains an ordered history of conversation messages,
// automatically trimming the oldest entries when the limit is reached.
type ConversationContext struct {
	mu          sync.Mutex
	messages    []Message
	maxMessages int
}

// NewConversationContext creates a new conversation context holding at
// most maxMessages messages. Non-positive values use the default of 20;
// the minimum is one exchange.
func NewConversationContext(maxMessages int) *ConversationContext {
	switch {
	case maxMessages <= 0:
		maxMessages = defaultMaxMessages
	case maxMessages < 2:
		maxMessages = 2
	}
	return &ConversationContext{
		messages:    make([]Message, 0, maxMessages),
		maxMessages: maxMessages,
	}
}

// AddExchange appends a question and its answer. When the history grows
// past maxMessages, the oldest exchanges after the first one are dropped,
// keeping the user/assistant alternation intact.
func (c *ConversationContext) AddExchange(question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages,
		Message{Role: RoleUser, Content: question},
		Message{Role: RoleAssistant, Content: answer},
	)

	if len(c.messages) > c.maxMessages {
		excess := len(c.messages) - c.maxMessages
		if excess%2 != 0 {
			excess++
		}
		trimmed := make([]Message, 0, c.maxMessages)
		trimmed = append(trimmed, c.messages[:2]...)
		if 2+excess < len(c.messages) {
			trimmed = append(trimmed, c.messages[2+excess:]...)
		}
		c.messages = trimmed
	}
}

// GetMessages returns a copy of the current conversation messages.
func (c *ConversationContext) GetMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// Reset clears all messages from the conversation context.
func (c *ConversationContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = c.messages[:0]
}

// Len returns the number of messages in the conversation context.
func (c *ConversationContext) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.messages)
}
