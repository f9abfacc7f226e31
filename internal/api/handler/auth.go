package handler

import (
	"net/http"

	"github.com/Rrens/prompt-playground/internal/api/response"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, token)
}
