// Package openai talks to OpenAI-compatible chat completion APIs (OpenAI, OpenRouter, DeepSeek).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rrens/prompt-playground/internal/config"
	"github.com/Rrens/prompt-playground/internal/llm"
)

// Options configures an OpenAI-compatible provider
type Options struct {
	Name         string
	APIKey       string
	BaseURL      string
	DefaultModel string
	Models       []string
	Headers      map[string]string
	Timeout      time.Duration
}

// Provider implements llm.Provider for OpenAI-compatible endpoints
type Provider struct {
	opts   Options
	client *http.Client
}

// New creates a provider from explicit options
func New(opts Options) *Provider {
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Provider{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.OpenAIConfig, timeout time.Duration) *Provider {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return New(Options{
		Name:         "openai",
		APIKey:       cfg.APIKey,
		BaseURL:      baseURL,
		DefaultModel: model,
		Models:       []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini"},
		Timeout:      timeout,
	})
}

// NewOpenRouter creates a provider for OpenRouter, which serves the model catalog
func NewOpenRouter(cfg config.OpenRouterConfig, timeout time.Duration) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	models := make([]string, 0, len(llm.Catalog))
	for _, m := range llm.Catalog {
		models = append(models, m.ID)
	}

	headers := map[string]string{}
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.Title != "" {
		headers["X-Title"] = cfg.Title
	}

	return New(Options{
		Name:         "openrouter",
		APIKey:       cfg.APIKey,
		BaseURL:      baseURL,
		DefaultModel: llm.DefaultModelID,
		Models:       models,
		Headers:      headers,
		Timeout:      timeout,
	})
}

// NewDeepSeek creates a provider for the DeepSeek API
func NewDeepSeek(cfg config.DeepSeekConfig, timeout time.Duration) *Provider {
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	return New(Options{
		Name:         "deepseek",
		APIKey:       cfg.APIKey,
		BaseURL:      "https://api.deepseek.com/v1",
		DefaultModel: model,
		Models:       []string{"deepseek-chat", "deepseek-reasoner"},
		Timeout:      timeout,
	})
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.opts.Name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return p.opts.Models
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.opts.DefaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.opts.APIKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage map[string]any `json:"usage"`
}

// Chat sends the conversation to /chat/completions
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.opts.DefaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.opts.APIKey)
	for k, v := range p.opts.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, llm.NewStatusError(p.opts.Name, resp)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.opts.Name)
	}

	if chatResp.Model == "" {
		chatResp.Model = model
	}

	var usage any
	if chatResp.Usage != nil {
		usage = chatResp.Usage
	}

	return &llm.ChatResponse{
		Content: chatResp.Choices[0].Message.Content,
		Model:   chatResp.Model,
		Usage:   usage,
	}, nil
}
