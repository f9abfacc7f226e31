package chat

import "strings"

// NoResponseContent replaces an empty assistant reply
const NoResponseContent = "No response content"

// NormalizeContent flattens a provider reply into text. A reply is either a
// string or a list of fragments; a fragment is a string or an object with a
// "text" or "content" field. Empty fragments are dropped and the rest joined by newlines.
func NormalizeContent(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []string:
		return joinFragments(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, part := range v {
			parts = append(parts, fragmentText(part))
		}
		return joinFragments(parts)
	default:
		return ""
	}
}

func fragmentText(part any) string {
	switch p := part.(type) {
	case string:
		return p
	case map[string]any:
		if text, ok := p["text"].(string); ok && text != "" {
			return text
		}
		if content, ok := p["content"].(string); ok && content != "" {
			return content
		}
	case map[string]string:
		if p["text"] != "" {
			return p["text"]
		}
		return p["content"]
	}
	return ""
}

func joinFragments(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
