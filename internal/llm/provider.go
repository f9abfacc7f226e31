package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Message is one entry of a chat request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest contains chat completion parameters
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// ChatResponse is a provider reply. Content is either a string or a list of
// fragments; Usage is the provider's raw counter payload. Callers normalize both.
type ChatResponse struct {
	Content any
	Model   string
	Usage   any
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat sends a conversation and returns the first reply
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// StatusError is returned when a provider answers with a non-200 status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewStatusError reads a bounded snippet of the error body
func NewStatusError(provider string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &StatusError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// SplitSystem separates system messages from the conversation turns, for APIs
// that take the system prompt as a separate field.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}
