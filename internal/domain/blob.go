package domain

import "context"

// Storage keys, one serialized blob each
const (
	KeyPrompts       = "playground_prompts"
	KeyCurrentPrompt = "playground_current_prompt"
	KeyConversations = "playground_conversations"
)

// BlobStore is a key-value store of named byte blobs
type BlobStore interface {
	// Get returns the blob stored under key; ok is false when the key is absent
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Put replaces the blob stored under key
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Ping verifies backend connectivity
	Ping(ctx context.Context) error

	// Close releases backend resources
	Close() error
}
