package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/prompt-playground/internal/api/response"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/service"
)

// PromptHandler handles prompt library endpoints
type PromptHandler struct {
	promptService *service.PromptService
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptService *service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// List returns all saved prompts
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.promptService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, prompts)
}

// Save upserts a prompt by name
func (h *PromptHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input domain.PromptSave
	if !decodeJSON(w, r, &input) {
		return
	}

	prompt, err := h.promptService.Save(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, prompt)
}

// Get returns a prompt by id
func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.promptService.Get(r.Context(), chi.URLParam(r, "promptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, prompt)
}

// GetByName returns the first prompt with the given name
func (h *PromptHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.promptService.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, prompt)
}

// Delete removes a prompt
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.promptService.Delete(r.Context(), chi.URLParam(r, "promptID")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Export downloads the whole library as a collection document
func (h *PromptHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.promptService.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Attachment(w, "application/json", "prompts.json", data)
}

// Import replaces the library with the collection document in the body
func (h *PromptHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.promptService.Import(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !result.Success {
		response.Error(w, http.StatusBadRequest, result)
		return
	}
	response.OK(w, result)
}

// Markdown downloads one prompt as a markdown document
func (h *PromptHandler) Markdown(w http.ResponseWriter, r *http.Request) {
	export, err := h.promptService.Markdown(r.Context(), chi.URLParam(r, "promptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Attachment(w, "text/markdown; charset=utf-8", export.FileName, []byte(export.Document))
}

// Decode extracts a prompt from an uploaded markdown or JSON file
func (h *PromptHandler) Decode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read file")
		return
	}

	save, _ := strconv.ParseBool(r.FormValue("save"))

	result, err := h.promptService.Decode(r.Context(), header.Filename, data, save)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if result.Prompt != nil {
		response.Created(w, result)
		return
	}
	response.OK(w, result)
}

type draftRequest struct {
	Content string `json:"content"`
}

// GetDraft returns the scratch prompt
func (h *PromptHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	content, err := h.promptService.Draft(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, draftRequest{Content: content})
}

// PutDraft stores the scratch prompt
func (h *PromptHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	var input draftRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.promptService.SaveDraft(r.Context(), input.Content); err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, input)
}

type estimateRequest struct {
	Text string `json:"text" validate:"max=1000000"`
}

// EstimateTokens counts the tokens in a piece of text locally
func (h *PromptHandler) EstimateTokens(w http.ResponseWriter, r *http.Request) {
	var input estimateRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	response.OK(w, h.promptService.EstimateTokens(input.Text))
}
