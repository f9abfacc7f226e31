package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/prompt-playground/internal/api/response"
	"github.com/Rrens/prompt-playground/internal/chat"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/service"
)

// SessionHandler handles live test session endpoints
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create starts a session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.SessionCreate
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := h.sessionService.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, session.Snapshot())
}

// Get returns the session transcript and state
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, session.Snapshot())
}

// Delete discards a session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.sessionService.Delete(chi.URLParam(r, "sessionID"))
	response.NoContent(w)
}

type messageRequest struct {
	Content string `json:"content" validate:"required,max=200000"`
}

type messageResponse struct {
	Turn  *chat.Turn        `json:"turn"`
	Usage domain.TokenUsage `json:"usage"`
}

// SendMessage submits a user message and waits for the assistant turn.
// A provider failure still answers 200 with an error turn.
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var input messageRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	// The turn is committed to the session even if the client goes away.
	id := chi.URLParam(r, "sessionID")
	turn, err := h.sessionService.Submit(context.WithoutCancel(r.Context()), id, input.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.sessionService.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, messageResponse{Turn: turn, Usage: session.Usage()})
}

type promptRequest struct {
	SystemPrompt *string `json:"system_prompt"`
	PromptID     string  `json:"prompt_id" validate:"required_without=SystemPrompt"`
}

// SetPrompt replaces the system prompt, either with text or with a saved prompt
func (h *SessionHandler) SetPrompt(w http.ResponseWriter, r *http.Request) {
	var input promptRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	id := chi.URLParam(r, "sessionID")
	var (
		session *chat.Session
		err     error
	)
	if input.PromptID != "" {
		session, err = h.sessionService.LoadPrompt(r.Context(), id, input.PromptID)
	} else {
		session, err = h.sessionService.SetSystemPrompt(r.Context(), id, *input.SystemPrompt)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, session.Snapshot())
}

type modelRequest struct {
	Model string `json:"model" validate:"max=200"`
}

// SetModel selects the model; an empty model restores the default
func (h *SessionHandler) SetModel(w http.ResponseWriter, r *http.Request) {
	var input modelRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := h.sessionService.SetModel(chi.URLParam(r, "sessionID"), input.Model)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, session.Snapshot())
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// Reset clears the transcript; the caller must confirm
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var input resetRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	if !input.Confirm {
		response.BadRequest(w, "reset requires confirm: true")
		return
	}

	session, err := h.sessionService.Reset(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, session.Snapshot())
}

// ResetUsage clears only the token counter
func (h *SessionHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.ResetUsage(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, session.Snapshot())
}

type saveRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

// Save stores the transcript as a conversation
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input saveRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	conv, err := h.sessionService.Save(r.Context(), chi.URLParam(r, "sessionID"), input.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, conv)
}
