package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/prompt-playground/internal/chat"
	"github.com/Rrens/prompt-playground/internal/domain"
)

// SessionCreate represents a new test session request. Without a prompt id or
// system prompt the session starts from the saved draft.
type SessionCreate struct {
	PromptID     string  `json:"prompt_id" validate:"omitempty,max=64"`
	SystemPrompt *string `json:"system_prompt"`
	Model        string  `json:"model" validate:"omitempty,max=200"`
}

// SessionService owns the live chat sessions
type SessionService struct {
	chatter       chat.Chatter
	prompts       domain.PromptRepository
	conversations domain.ConversationRepository
	temperature   float64
	defaultModel  string

	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewSessionService creates a new session service
func NewSessionService(
	chatter chat.Chatter,
	prompts domain.PromptRepository,
	conversations domain.ConversationRepository,
	temperature float64,
	defaultModel string,
) *SessionService {
	if temperature <= 0 {
		temperature = chat.DefaultTemperature
	}
	return &SessionService{
		chatter:       chatter,
		prompts:       prompts,
		conversations: conversations,
		temperature:   temperature,
		defaultModel:  defaultModel,
		sessions:      make(map[string]*chat.Session),
	}
}

// Create starts a new session
func (s *SessionService) Create(ctx context.Context, input SessionCreate) (*chat.Session, error) {
	id := uuid.NewString()
	session := chat.NewSession(id, s.chatter,
		chat.WithTemperature(s.temperature),
		chat.WithTransitionHook(func(from, to chat.State) {
			log.Debug().Str("session_id", id).Str("from", string(from)).Str("to", string(to)).Msg("Session state")
		}),
	)

	model := input.Model
	if model == "" {
		model = s.defaultModel
	}
	session.SetModel(model)

	switch {
	case input.PromptID != "":
		p, err := s.prompts.GetByID(ctx, input.PromptID)
		if err != nil {
			return nil, err
		}
		session.LoadPrompt(*p)
	case input.SystemPrompt != nil:
		session.SetSystemPrompt(*input.SystemPrompt)
	default:
		draft, _, err := s.prompts.Draft(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load draft: %w", err)
		}
		session.SetSystemPrompt(draft)
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	log.Info().Str("session_id", id).Str("model", session.Snapshot().Model).Msg("Session created")
	return session, nil
}

// Get returns a live session
func (s *SessionService) Get(id string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return session, nil
}

// Delete discards a session; unknown ids are ignored
func (s *SessionService) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Submit sends a user message and returns the assistant turn
func (s *SessionService) Submit(ctx context.Context, id, text string) (*chat.Turn, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return session.Submit(ctx, text)
}

// SetSystemPrompt edits the session prompt and persists it as the draft
func (s *SessionService) SetSystemPrompt(ctx context.Context, id, prompt string) (*chat.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.SetSystemPrompt(prompt)
	if err := s.prompts.SaveDraft(ctx, prompt); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return session, nil
}

// LoadPrompt switches the session to a saved prompt
func (s *SessionService) LoadPrompt(ctx context.Context, id, promptID string) (*chat.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	p, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	session.LoadPrompt(*p)
	return session, nil
}

// SetModel selects the model for later messages
func (s *SessionService) SetModel(id, model string) (*chat.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	session.SetModel(model)
	return session, nil
}

// Reset clears the transcript and the token total
func (s *SessionService) Reset(id string) (*chat.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Reset(); err != nil {
		return nil, err
	}
	return session, nil
}

// ResetUsage clears only the token total
func (s *SessionService) ResetUsage(id string) (*chat.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	session.ResetUsage()
	return session, nil
}

// Save snapshots the session into the conversation history
func (s *SessionService) Save(ctx context.Context, id, notes string) (*domain.Conversation, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.Save(ctx, session.ConversationInput(notes))
	if err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	log.Info().Str("session_id", id).Str("conversation_id", conv.ID).Int("messages", len(conv.Messages)).Msg("Conversation saved")
	return conv, nil
}
