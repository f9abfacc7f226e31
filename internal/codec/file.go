package codec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DecodeJSONPrompt reads a single prompt document of the form {"name": ..., "content": ...}
func DecodeJSONPrompt(data []byte, fallbackName string) (*Decoded, error) {
	var doc struct {
		Name    any `json:"name"`
		Content any `json:"content"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Message: "invalid prompt document", Cause: err}
	}

	content, _ := doc.Content.(string)
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentNotFound
	}

	name, _ := doc.Name.(string)
	if name == "" {
		name = fallbackName
	}

	return &Decoded{Name: name, Content: content, Strategy: StrategyJSON}, nil
}

// DecodeFile picks a decoder by file extension
func DecodeFile(filename string, data []byte) (*Decoded, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), ext)

	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return DecodeMarkdown(string(data), stem)
	case ".json":
		return DecodeJSONPrompt(data, stem)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// FileName derives a safe markdown file name from a prompt name
func FileName(name string) string {
	base := strings.ToLower(unsafeFileChars.ReplaceAllString(name, "-"))
	if base == "" {
		base = "prompt"
	}
	return base + ".md"
}
