package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/rs/zerolog/log"
)

// MaxConversations is the number of saved conversations kept; older ones are evicted
const MaxConversations = 50

// ConversationStore implements domain.ConversationRepository over a blob store.
// Conversations are kept newest first.
type ConversationStore struct {
	blobs domain.BlobStore
	mu    sync.Mutex
	settings
}

// NewConversationStore creates a conversation store
func NewConversationStore(blobs domain.BlobStore, opts ...Option) *ConversationStore {
	return &ConversationStore{blobs: blobs, settings: defaultSettings(opts)}
}

// Save snapshots a transcript at the front of the collection and evicts beyond MaxConversations
func (s *ConversationStore) Save(ctx context.Context, input domain.ConversationInput) (*domain.Conversation, error) {
	messages := make([]domain.StoredMessage, 0, len(input.Messages))
	for _, m := range input.Messages {
		messages = append(messages, domain.NewStoredMessage(m))
	}

	conv := domain.Conversation{
		ID:         s.newID(),
		PromptID:   input.PromptID,
		PromptName: input.PromptName,
		Model:      input.Model,
		Messages:   messages,
		CreatedAt:  s.now(),
		Notes:      input.Notes,
	}
	if input.TokenUsage != nil {
		u := *input.TokenUsage
		conv.TokenUsage = &u
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	convs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	convs = append([]domain.Conversation{conv}, convs...)
	if len(convs) > MaxConversations {
		log.Debug().Int("evicted", len(convs)-MaxConversations).Msg("Evicting oldest conversations")
		convs = convs[:MaxConversations]
	}

	if err := s.persist(ctx, convs); err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetAll returns conversations newest first
func (s *ConversationStore) GetAll(ctx context.Context) ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ConversationStore) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	convs, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		if convs[i].ID == id {
			return &convs[i], nil
		}
	}
	return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
}

// GetByPrompt returns conversations linked to promptID in stored order
func (s *ConversationStore) GetByPrompt(ctx context.Context, promptID string) ([]domain.Conversation, error) {
	convs, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := []domain.Conversation{}
	for _, c := range convs {
		if c.PromptID == promptID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := convs[:0]
	for _, c := range convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(convs) {
		return nil
	}
	return s.persist(ctx, kept)
}

// Clear removes every saved conversation
func (s *ConversationStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blobs.Delete(ctx, domain.KeyConversations); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	return nil
}

func (s *ConversationStore) load(ctx context.Context) ([]domain.Conversation, error) {
	data, ok, err := s.blobs.Get(ctx, domain.KeyConversations)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	if !ok {
		return []domain.Conversation{}, nil
	}

	var convs []domain.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		log.Warn().Err(err).Str("key", domain.KeyConversations).Msg("Stored conversations are unreadable, treating as empty")
		return []domain.Conversation{}, nil
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	return convs, nil
}

func (s *ConversationStore) persist(ctx context.Context, convs []domain.Conversation) error {
	data, err := json.Marshal(convs)
	if err != nil {
		return fmt.Errorf("failed to encode conversations: %w", err)
	}
	if err := s.blobs.Put(ctx, domain.KeyConversations, data); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}
	return nil
}
