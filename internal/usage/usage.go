// Package usage normalizes provider token counters and accumulates them per session.
package usage

import (
	"encoding/json"
	"math"

	"github.com/Rrens/prompt-playground/internal/domain"
)

// Key priority per field. The first key holding a positive number wins.
var (
	promptKeys     = []string{"promptTokens", "prompt_tokens", "prompt"}
	completionKeys = []string{"completionTokens", "completion_tokens", "completion"}
	totalKeys      = []string{"totalTokens", "total_tokens"}
)

// Normalize resolves a loosely-typed usage payload into canonical counters.
// Unknown shapes normalize to zero usage.
func Normalize(raw any) domain.TokenUsage {
	fields := toFields(raw)
	if fields == nil {
		return domain.TokenUsage{}
	}

	prompt, _ := lookup(fields, promptKeys)
	completion, _ := lookup(fields, completionKeys)

	total, ok := lookup(fields, totalKeys)
	if !ok {
		total = prompt + completion
	}

	return domain.TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
	}
}

// Accumulate returns the field-wise sum of a session total and one turn.
func Accumulate(total, turn domain.TokenUsage) domain.TokenUsage {
	return domain.TokenUsage{
		PromptTokens:     total.PromptTokens + turn.PromptTokens,
		CompletionTokens: total.CompletionTokens + turn.CompletionTokens,
		TotalTokens:      total.TotalTokens + turn.TotalTokens,
	}
}

// Sum folds Accumulate over a list of turn usages
func Sum(turns ...domain.TokenUsage) domain.TokenUsage {
	var total domain.TokenUsage
	for _, t := range turns {
		total = Accumulate(total, t)
	}
	return total
}

func toFields(raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	case map[string]int:
		out := make(map[string]any, len(v))
		for k, n := range v {
			out[k] = n
		}
		return out
	case domain.TokenUsage:
		return usageFields(v)
	case *domain.TokenUsage:
		if v == nil {
			return nil
		}
		return usageFields(*v)
	case json.RawMessage:
		return decodeFields(v)
	case []byte:
		return decodeFields(v)
	}
	return nil
}

func usageFields(u domain.TokenUsage) map[string]any {
	return map[string]any{
		"promptTokens":     u.PromptTokens,
		"completionTokens": u.CompletionTokens,
		"totalTokens":      u.TotalTokens,
	}
}

func decodeFields(data []byte) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

func lookup(fields map[string]any, keys []string) (int, bool) {
	for _, key := range keys {
		if n, ok := count(fields[key]); ok {
			return n, true
		}
	}
	return 0, false
}

// count accepts positive numbers only; zero, negative and non-numeric values fall through.
func count(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}
