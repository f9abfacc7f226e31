package domain

import (
	"context"
	"time"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// TimestampLayout is the stored form of message timestamps (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// TimedMessage is an in-memory transcript entry.
type TimedMessage struct {
	Role      MessageRole
	Content   string
	Timestamp time.Time
}

// StoredMessage is a transcript entry as persisted inside a Conversation.
type StoredMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp string      `json:"timestamp"`
}

// NewStoredMessage converts an in-memory message to its stored form
func NewStoredMessage(m TimedMessage) StoredMessage {
	return StoredMessage{
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.Timestamp.UTC().Format(TimestampLayout),
	}
}

// Conversation is an immutable snapshot of one test session.
type Conversation struct {
	ID         string          `json:"id"`
	PromptID   string          `json:"promptId,omitempty"`
	PromptName string          `json:"promptName,omitempty"`
	Model      string          `json:"model"`
	Messages   []StoredMessage `json:"messages"`
	TokenUsage *TokenUsage     `json:"tokenUsage,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Notes      string          `json:"notes,omitempty"`
}

// ConversationInput carries everything needed to save a conversation
type ConversationInput struct {
	PromptID   string
	PromptName string
	Model      string
	Messages   []TimedMessage
	TokenUsage *TokenUsage
	Notes      string
}

// ConversationRepository defines the interface for conversation storage
type ConversationRepository interface {
	Save(ctx context.Context, input ConversationInput) (*Conversation, error)
	GetAll(ctx context.Context) ([]Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	GetByPrompt(ctx context.Context, promptID string) ([]Conversation, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
