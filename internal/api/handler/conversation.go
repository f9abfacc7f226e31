package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/prompt-playground/internal/api/response"
	"github.com/Rrens/prompt-playground/internal/service"
)

// ConversationHandler handles saved conversation endpoints
type ConversationHandler struct {
	conversationService *service.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// List returns saved conversations, filtered by ?prompt_id when given
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	convs, err := h.conversationService.List(r.Context(), r.URL.Query().Get("prompt_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, convs)
}

// Get returns a conversation by id
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversationService.Get(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, conv)
}

// Delete removes a conversation
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.conversationService.Delete(r.Context(), chi.URLParam(r, "conversationID")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Clear removes every conversation
func (h *ConversationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.conversationService.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}
