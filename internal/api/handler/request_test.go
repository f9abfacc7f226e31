package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rrens/prompt-playground/internal/chat"
	"github.com/Rrens/prompt-playground/internal/codec"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/service"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("prompt x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"busy", chat.ErrBusy, http.StatusConflict},
		{"empty message", chat.ErrEmptyMessage, http.StatusBadRequest},
		{"no content", codec.ErrContentNotFound, http.StatusUnprocessableEntity},
		{"unsupported", fmt.Errorf("file a.txt: %w", codec.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{"validation", &codec.ValidationError{Message: "not an array"}, http.StatusBadRequest},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required,max=5"`
	}

	tests := []struct {
		name string
		body string
		ok   bool
		msg  string
	}{
		{"valid", `{"name":"abc"}`, true, ""},
		{"malformed", `{`, false, "invalid request body"},
		{"missing", `{}`, false, "field is required"},
		{"too long", `{"name":"abcdefg"}`, false, "must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst input
			assert.Equal(t, tt.ok, decodeJSON(rec, req, &dst))
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), tt.msg)
			}
		})
	}
}
