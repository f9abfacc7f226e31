// Package chat runs test conversations against a system prompt.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/llm"
	"github.com/Rrens/prompt-playground/internal/usage"
	"github.com/rs/zerolog/log"
)

var (
	// ErrBusy is returned when a request is already in flight for the session
	ErrBusy = errors.New("a request is already in flight")

	// ErrEmptyMessage is returned for blank user input
	ErrEmptyMessage = errors.New("message is empty")

	errNoChoice = errors.New("no response from the model")
)

// DefaultTemperature is the sampling temperature for test conversations
const DefaultTemperature = 0.7

// State of a session's request cycle
type State string

const (
	StateIdle             State = "idle"
	StateSending          State = "sending"
	StateAwaitingResponse State = "awaiting_response"
	StateCommitting       State = "committing"
	StateErrored          State = "errored"
)

// Chatter sends one chat request; llm.Router and every llm.Provider satisfy it
type Chatter interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Turn is one transcript entry
type Turn struct {
	Role      domain.MessageRole `json:"role"`
	Content   string             `json:"content"`
	Timestamp time.Time          `json:"timestamp"`
	Usage     *domain.TokenUsage `json:"usage,omitempty"`
	Error     bool               `json:"error,omitempty"`
}

// Snapshot is a consistent copy of session state
type Snapshot struct {
	ID           string            `json:"id"`
	State        State             `json:"state"`
	SystemPrompt string            `json:"systemPrompt"`
	Model        string            `json:"model"`
	ModelName    string            `json:"modelName"`
	PromptID     string            `json:"promptId,omitempty"`
	PromptName   string            `json:"promptName,omitempty"`
	Turns        []Turn            `json:"turns"`
	Usage        domain.TokenUsage `json:"usage"`
}

// Option configures a Session
type Option func(*Session)

// WithModel sets the initial model id
func WithModel(model string) Option {
	return func(s *Session) { s.model = model }
}

// WithTemperature overrides DefaultTemperature
func WithTemperature(t float64) Option {
	return func(s *Session) { s.temperature = t }
}

// WithSystemPrompt sets the initial system prompt
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.systemPrompt = prompt }
}

// WithClock overrides the time source for turn timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithTransitionHook observes state changes. The hook runs with the session
// lock held and must not call back into the session.
func WithTransitionHook(hook func(from, to State)) Option {
	return func(s *Session) { s.onTransition = hook }
}

// Session owns one transcript and allows a single request in flight
type Session struct {
	id           string
	chatter      Chatter
	temperature  float64
	now          func() time.Time
	onTransition func(from, to State)

	mu           sync.Mutex
	state        State
	systemPrompt string
	model        string
	promptID     string
	promptName   string
	turns        []Turn
	total        domain.TokenUsage
}

// NewSession creates an idle session
func NewSession(id string, chatter Chatter, opts ...Option) *Session {
	s := &Session{
		id:          id,
		chatter:     chatter,
		temperature: DefaultTemperature,
		now:         time.Now,
		state:       StateIdle,
		model:       llm.DefaultModelID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Submit sends text as a user turn and appends the assistant reply.
// Provider failures are recorded as an error turn and do not return an error.
func (s *Session) Submit(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	req := llm.ChatRequest{
		Model:       s.model,
		Messages:    s.buildMessages(text),
		Temperature: s.temperature,
	}
	s.turns = append(s.turns, Turn{Role: domain.RoleUser, Content: text, Timestamp: s.now()})
	s.transition(StateSending)
	s.mu.Unlock()

	resp, err := s.call(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		return s.fail(err), nil
	}

	s.transition(StateAwaitingResponse)
	if resp == nil {
		return s.fail(errNoChoice), nil
	}

	content := NormalizeContent(resp.Content)
	if content == "" {
		content = NoResponseContent
	}
	turnUsage := usage.Normalize(resp.Usage)

	s.transition(StateCommitting)
	turn := Turn{
		Role:      domain.RoleAssistant,
		Content:   content,
		Timestamp: s.now(),
		Usage:     &turnUsage,
	}
	s.turns = append(s.turns, turn)
	s.total = usage.Accumulate(s.total, turnUsage)
	s.transition(StateIdle)

	log.Debug().
		Str("session_id", s.id).
		Str("model", resp.Model).
		Int("total_tokens", turnUsage.TotalTokens).
		Msg("Assistant turn committed")

	return &turn, nil
}

// buildMessages must be called with s.mu held
func (s *Session) buildMessages(text string) []llm.Message {
	messages := make([]llm.Message, 0, len(s.turns)+2)
	if strings.TrimSpace(s.systemPrompt) != "" {
		messages = append(messages, llm.Message{Role: string(domain.RoleSystem), Content: s.systemPrompt})
	}
	for _, t := range s.turns {
		if t.Role == domain.RoleSystem {
			continue
		}
		messages = append(messages, llm.Message{Role: string(t.Role), Content: t.Content})
	}
	return append(messages, llm.Message{Role: string(domain.RoleUser), Content: text})
}

// fail must be called with s.mu held
// call invokes the provider, turning a panic into an error so the session
// always leaves the sending state.
func (s *Session) call(ctx context.Context, req llm.ChatRequest) (resp *llm.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("provider panic: %v", r)
		}
	}()
	return s.chatter.Chat(ctx, req)
}

func (s *Session) fail(err error) *Turn {
	s.transition(StateErrored)
	log.Warn().Err(err).Str("session_id", s.id).Msg("Chat request failed")

	turn := Turn{
		Role:      domain.RoleAssistant,
		Content:   "Error: " + err.Error(),
		Timestamp: s.now(),
		Error:     true,
	}
	s.turns = append(s.turns, turn)
	s.transition(StateIdle)
	return &turn
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	if s.onTransition != nil {
		s.onTransition(from, to)
	}
}

// Reset clears the transcript and the session token total
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrBusy
	}
	s.turns = nil
	s.total = domain.TokenUsage{}
	return nil
}

// ResetUsage clears only the session token total
func (s *Session) ResetUsage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = domain.TokenUsage{}
}

// SetSystemPrompt replaces the system prompt used by later requests
func (s *Session) SetSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = prompt
}

// SetModel selects the model used by later requests
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if model == "" {
		model = llm.DefaultModelID
	}
	s.model = model
}

// LoadPrompt uses a saved prompt as the system prompt and links the session to it
func (s *Session) LoadPrompt(p domain.Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = p.Content
	s.promptID = p.ID
	s.promptName = p.Name
}

// Usage returns the accumulated token total
func (s *Session) Usage() domain.TokenUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// State returns the current request state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot copies the session state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)

	return Snapshot{
		ID:           s.id,
		State:        s.state,
		SystemPrompt: s.systemPrompt,
		Model:        s.model,
		ModelName:    llm.DisplayName(s.model),
		PromptID:     s.promptID,
		PromptName:   s.promptName,
		Turns:        turns,
		Usage:        s.total,
	}
}

// ConversationInput captures the transcript for saving
func (s *Session) ConversationInput(notes string) domain.ConversationInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]domain.TimedMessage, 0, len(s.turns))
	for _, t := range s.turns {
		messages = append(messages, domain.TimedMessage{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp})
	}

	var total *domain.TokenUsage
	if !s.total.IsZero() {
		u := s.total
		total = &u
	}

	return domain.ConversationInput{
		PromptID:   s.promptID,
		PromptName: s.promptName,
		Model:      s.model,
		Messages:   messages,
		TokenUsage: total,
		Notes:      notes,
	}
}
