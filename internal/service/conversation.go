package service

import (
	"context"

	"github.com/Rrens/prompt-playground/internal/domain"
)

// ConversationService exposes saved conversations
type ConversationService struct {
	repo domain.ConversationRepository
}

// NewConversationService creates a new conversation service
func NewConversationService(repo domain.ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

// List returns saved conversations, newest first, optionally for one prompt
func (s *ConversationService) List(ctx context.Context, promptID string) ([]domain.Conversation, error) {
	if promptID != "" {
		return s.repo.GetByPrompt(ctx, promptID)
	}
	return s.repo.GetAll(ctx)
}

// Get returns a conversation by id
func (s *ConversationService) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes a conversation
func (s *ConversationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Clear removes every conversation
func (s *ConversationService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
