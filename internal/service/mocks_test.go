package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/llm"
)

// MockPromptRepository mocks the PromptRepository interface
type MockPromptRepository struct {
	mock.Mock
}

func (m *MockPromptRepository) Save(ctx context.Context, name, content, notes string) (*domain.Prompt, error) {
	args := m.Called(ctx, name, content, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockPromptRepository) GetAll(ctx context.Context) ([]domain.Prompt, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Prompt), args.Error(1)
}

func (m *MockPromptRepository) GetByID(ctx context.Context, id string) (*domain.Prompt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockPromptRepository) GetByName(ctx context.Context, name string) (*domain.Prompt, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockPromptRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPromptRepository) Export(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPromptRepository) Import(ctx context.Context, data []byte) (domain.ImportResult, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.ImportResult), args.Error(1)
}

func (m *MockPromptRepository) SaveDraft(ctx context.Context, content string) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockPromptRepository) Draft(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockConversationRepository mocks the ConversationRepository interface
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Save(ctx context.Context, input domain.ConversationInput) (*domain.Conversation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetAll(ctx context.Context) ([]domain.Conversation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetByPrompt(ctx context.Context, promptID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, promptID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConversationRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockChatter mocks the LLM router
type MockChatter struct {
	mock.Mock
}

func (m *MockChatter) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.ChatResponse), args.Error(1)
}
