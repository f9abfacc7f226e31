package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/prompt-playground/internal/domain"
)

// EncodeCollection renders prompts as an indented JSON array
func EncodeCollection(prompts []domain.Prompt) ([]byte, error) {
	if prompts == nil {
		prompts = []domain.Prompt{}
	}
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode prompts: %w", err)
	}
	return data, nil
}

// DecodeCollection parses a collection document. Anything other than a JSON
// array is a ValidationError. Records are read leniently and are not validated;
// an element that is not an object becomes a zero-value prompt.
func DecodeCollection(data []byte) ([]domain.Prompt, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(data) == 0 || data[0] != '[' {
		return nil, &ValidationError{Message: "invalid format: expected an array of prompts"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Message: "invalid format: malformed JSON", Cause: err}
	}

	prompts := make([]domain.Prompt, 0, len(raw))
	for _, item := range raw {
		var rec wirePrompt
		if err := json.Unmarshal(item, &rec); err != nil {
			prompts = append(prompts, domain.Prompt{})
			continue
		}
		prompts = append(prompts, rec.toDomain())
	}
	return prompts, nil
}

type wirePrompt struct {
	ID        looseString `json:"id"`
	Name      looseString `json:"name"`
	Content   looseString `json:"content"`
	Notes     looseString `json:"notes"`
	CreatedAt looseTime   `json:"createdAt"`
	UpdatedAt looseTime   `json:"updatedAt"`
}

func (w wirePrompt) toDomain() domain.Prompt {
	return domain.Prompt{
		ID:        string(w.ID),
		Name:      string(w.Name),
		Content:   string(w.Content),
		Notes:     string(w.Notes),
		CreatedAt: time.Time(w.CreatedAt),
		UpdatedAt: time.Time(w.UpdatedAt),
	}
}

// looseString accepts strings, numbers and booleans; anything else reads as empty.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case string:
		*s = looseString(x)
	case json.Number:
		*s = looseString(x.String())
	case bool:
		*s = looseString(strconv.FormatBool(x))
	default:
		*s = ""
	}
	return nil
}

// looseTime accepts RFC 3339 text or epoch milliseconds; anything else reads as zero.
type looseTime time.Time

func (t *looseTime) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(x)); err == nil {
			*t = looseTime(parsed.UTC())
		}
	case json.Number:
		if ms, err := x.Float64(); err == nil {
			*t = looseTime(time.UnixMilli(int64(ms)).UTC())
		}
	}
	return nil
}
