package domain

import (
	"context"
	"time"
)

// Prompt is a named, versionable system prompt.
// JSON field names follow the portable collection document.
type Prompt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImportResult reports the outcome of a bulk prompt import
type ImportResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// PromptRepository defines the interface for prompt storage
type PromptRepository interface {
	Save(ctx context.Context, name, content, notes string) (*Prompt, error)
	GetAll(ctx context.Context) ([]Prompt, error)
	GetByID(ctx context.Context, id string) (*Prompt, error)
	GetByName(ctx context.Context, name string) (*Prompt, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (ImportResult, error)
	SaveDraft(ctx context.Context, content string) error
	Draft(ctx context.Context) (string, bool, error)
}

// PromptSave represents a save-by-name request
type PromptSave struct {
	Name    string `json:"name" validate:"max=200"`
	Content string `json:"content" validate:"required"`
	Notes   string `json:"notes" validate:"max=5000"`
}
