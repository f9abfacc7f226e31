package service

import (
	"context"
	"fmt"

	"github.com/Rrens/prompt-playground/internal/codec"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/usage"
)

// PromptService handles the prompt library, portable documents and the draft slot
type PromptService struct {
	repo      domain.PromptRepository
	estimator *usage.Estimator
}

// NewPromptService creates a new prompt service
func NewPromptService(repo domain.PromptRepository, estimator *usage.Estimator) *PromptService {
	return &PromptService{repo: repo, estimator: estimator}
}

// Save upserts a prompt by name
func (s *PromptService) Save(ctx context.Context, input domain.PromptSave) (*domain.Prompt, error) {
	return s.repo.Save(ctx, input.Name, input.Content, input.Notes)
}

// List returns all prompts in stored order
func (s *PromptService) List(ctx context.Context) ([]domain.Prompt, error) {
	return s.repo.GetAll(ctx)
}

// Get returns a prompt by id
func (s *PromptService) Get(ctx context.Context, id string) (*domain.Prompt, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName returns the first prompt with the given name
func (s *PromptService) GetByName(ctx context.Context, name string) (*domain.Prompt, error) {
	return s.repo.GetByName(ctx, name)
}

// Delete removes a prompt
func (s *PromptService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Export returns the collection document
func (s *PromptService) Export(ctx context.Context) ([]byte, error) {
	return s.repo.Export(ctx)
}

// Import replaces the library with a collection document
func (s *PromptService) Import(ctx context.Context, data []byte) (domain.ImportResult, error) {
	return s.repo.Import(ctx, data)
}

// MarkdownExport is a single prompt rendered as a portable document
type MarkdownExport struct {
	FileName string
	Document string
}

// Markdown renders one prompt as a markdown document with a safe file name
func (s *PromptService) Markdown(ctx context.Context, id string) (*MarkdownExport, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &MarkdownExport{
		FileName: codec.FileName(p.Name),
		Document: codec.EncodePrompt(p.Name, p.Content),
	}, nil
}

// DecodeResult is a decoded prompt file, with the stored prompt when saved
type DecodeResult struct {
	Decoded *codec.Decoded `json:"decoded"`
	Prompt  *domain.Prompt `json:"prompt,omitempty"`
}

// Decode extracts a prompt from an uploaded file. When save is set the prompt
// is upserted by its decoded name.
func (s *PromptService) Decode(ctx context.Context, filename string, data []byte, save bool) (*DecodeResult, error) {
	decoded, err := codec.DecodeFile(filename, data)
	if err != nil {
		return nil, err
	}

	result := &DecodeResult{Decoded: decoded}
	if !save {
		return result, nil
	}

	p, err := s.repo.Save(ctx, decoded.Name, decoded.Content, "")
	if err != nil {
		return nil, fmt.Errorf("failed to save decoded prompt: %w", err)
	}
	result.Prompt = p
	return result, nil
}

// Draft returns the scratch prompt, empty when none was saved
func (s *PromptService) Draft(ctx context.Context) (string, error) {
	content, _, err := s.repo.Draft(ctx)
	return content, err
}

// SaveDraft stores the scratch prompt
func (s *PromptService) SaveDraft(ctx context.Context, content string) error {
	return s.repo.SaveDraft(ctx, content)
}

// EstimateTokens counts tokens locally, without calling a provider
func (s *PromptService) EstimateTokens(text string) usage.Estimate {
	return s.estimator.Count(text)
}
