package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Rrens/prompt-playground/internal/codec"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/rs/zerolog/log"
)

// PromptStore implements domain.PromptRepository over a blob store
type PromptStore struct {
	blobs domain.BlobStore
	mu    sync.Mutex
	settings
}

// NewPromptStore creates a prompt store
func NewPromptStore(blobs domain.BlobStore, opts ...Option) *PromptStore {
	return &PromptStore{blobs: blobs, settings: defaultSettings(opts)}
}

// Save upserts a prompt by name. The first prompt with a matching name is updated.
func (s *PromptStore) Save(ctx context.Context, name, content, notes string) (*domain.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	idx := indexByName(prompts, name)
	if idx >= 0 {
		prompts[idx].Content = content
		prompts[idx].Notes = notes
		prompts[idx].UpdatedAt = now
	} else {
		prompts = append(prompts, domain.Prompt{
			ID:        s.newID(),
			Name:      name,
			Content:   content,
			Notes:     notes,
			CreatedAt: now,
			UpdatedAt: now,
		})
		idx = len(prompts) - 1
	}

	if err := s.persist(ctx, prompts); err != nil {
		return nil, err
	}

	saved := prompts[idx]
	return &saved, nil
}

// GetAll returns prompts in persisted order
func (s *PromptStore) GetAll(ctx context.Context) ([]domain.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *PromptStore) GetByID(ctx context.Context, id string) (*domain.Prompt, error) {
	prompts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		if prompts[i].ID == id {
			return &prompts[i], nil
		}
	}
	return nil, fmt.Errorf("prompt %s: %w", id, domain.ErrNotFound)
}

func (s *PromptStore) GetByName(ctx context.Context, name string) (*domain.Prompt, error) {
	prompts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if idx := indexByName(prompts, name); idx >= 0 {
		return &prompts[idx], nil
	}
	return nil, fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
}

// Delete removes every prompt with the given id; absent ids are a no-op
func (s *PromptStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := prompts[:0]
	for _, p := range prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(prompts) {
		return nil
	}
	return s.persist(ctx, kept)
}

// Export renders the whole collection as a portable document
func (s *PromptStore) Export(ctx context.Context) ([]byte, error) {
	prompts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return codec.EncodeCollection(prompts)
}

// Import replaces the whole collection. Invalid documents leave storage untouched.
func (s *PromptStore) Import(ctx context.Context, data []byte) (domain.ImportResult, error) {
	prompts, err := codec.DecodeCollection(data)
	if err != nil {
		return domain.ImportResult{Success: false, Count: 0, Error: err.Error()}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, prompts); err != nil {
		return domain.ImportResult{Success: false, Count: 0, Error: err.Error()}, err
	}

	log.Info().Int("count", len(prompts)).Msg("Imported prompts")
	return domain.ImportResult{Success: true, Count: len(prompts)}, nil
}

// SaveDraft stores the in-progress system prompt
func (s *PromptStore) SaveDraft(ctx context.Context, content string) error {
	if err := s.blobs.Put(ctx, domain.KeyCurrentPrompt, []byte(content)); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Draft returns the in-progress system prompt, if one was saved
func (s *PromptStore) Draft(ctx context.Context) (string, bool, error) {
	data, ok, err := s.blobs.Get(ctx, domain.KeyCurrentPrompt)
	if err != nil {
		return "", false, fmt.Errorf("failed to load draft: %w", err)
	}
	return string(data), ok, nil
}

func (s *PromptStore) load(ctx context.Context) ([]domain.Prompt, error) {
	data, ok, err := s.blobs.Get(ctx, domain.KeyPrompts)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}
	if !ok {
		return []domain.Prompt{}, nil
	}

	prompts, err := codec.DecodeCollection(data)
	if err != nil {
		var verr *codec.ValidationError
		if errors.As(err, &verr) {
			log.Warn().Err(err).Str("key", domain.KeyPrompts).Msg("Stored prompts are unreadable, treating as empty")
			return []domain.Prompt{}, nil
		}
		return nil, err
	}
	return prompts, nil
}

func (s *PromptStore) persist(ctx context.Context, prompts []domain.Prompt) error {
	data, err := codec.EncodeCollection(prompts)
	if err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, domain.KeyPrompts, data); err != nil {
		return fmt.Errorf("failed to save prompts: %w", err)
	}
	return nil
}

func indexByName(prompts []domain.Prompt, name string) int {
	for i := range prompts {
		if prompts[i].Name == name {
			return i
		}
	}
	return -1
}
