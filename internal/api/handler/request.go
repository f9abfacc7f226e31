package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/prompt-playground/internal/api/response"
	"github.com/Rrens/prompt-playground/internal/chat"
	"github.com/Rrens/prompt-playground/internal/codec"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/service"
)

const maxBodyBytes = 10 << 20

var validate = validator.New()

// decodeJSON reads and validates a JSON request body. It writes the error
// response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			response.BadRequest(w, fieldErrors(validationErrors))
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}

func fieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	errs := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errs[field] = "field is required"
		case "min":
			errs[field] = "must be at least " + e.Param() + " characters"
		case "max":
			errs[field] = "must be at most " + e.Param() + " characters"
		default:
			errs[field] = "validation failed on " + tag
		}
	}
	return errs
}

// writeError maps domain and service errors onto the response envelope
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *codec.ValidationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, chat.ErrBusy):
		response.Conflict(w, err.Error())
	case errors.Is(err, chat.ErrEmptyMessage):
		response.BadRequest(w, err.Error())
	case errors.Is(err, codec.ErrContentNotFound):
		response.UnprocessableEntity(w, err.Error())
	case errors.Is(err, codec.ErrUnsupportedFormat):
		response.Error(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &validationErr):
		response.BadRequest(w, validationErr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		response.InternalError(w, "internal server error")
	}
}
