package chat_test

import (
	"context"

	"github.com/Rrens/prompt-playground/internal/llm"
	"github.com/stretchr/testify/mock"
)

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

// blockingChatter holds every request until release is closed
type blockingChatter struct {
	release chan struct{}
}

func (b *blockingChatter) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	select {
	case <-b.release:
		return &llm.ChatResponse{Content: "late reply", Model: req.Model}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// panickingChatter panics on the first request and then replies normally
type panickingChatter struct {
	calls int
}

func (p *panickingChatter) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.calls++
	if p.calls == 1 {
		panic("provider exploded")
	}
	return &llm.ChatResponse{Content: "recovered", Model: req.Model}, nil
}
