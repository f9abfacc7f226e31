package llm

// Model describes a selectable model
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// DefaultModelID is used when a session does not pick a model
const DefaultModelID = "openai/gpt-5.1"

// Catalog lists the models offered for selection, routed through OpenRouter
var Catalog = []Model{
	{ID: "openai/gpt-5.1", Name: "GPT 5.1", Provider: "openrouter"},
	{ID: "openai/gpt-5-mini-2025-08-07", Name: "GPT 5 (mini)", Provider: "openrouter"},
	{ID: "anthropic/claude-4.5-sonnet-20250929", Name: "Claude 4.5 Sonnet", Provider: "openrouter"},
	{ID: "google/gemini-3-pro-preview-20251117", Name: "Gemini 3 Pro (preview)", Provider: "openrouter"},
	{ID: "x-ai/grok-4.1-fast", Name: "Grok 4.1 Fast", Provider: "openrouter"},
	{ID: "qwen/qwen3-coder-30b-a3b-instruct", Name: "Qwen 3 Coder 30B", Provider: "openrouter"},
	{ID: "deepseek/deepseek-v3-base", Name: "DeepSeek V3 Base", Provider: "openrouter"},
	{ID: "google/gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: "openrouter"},
	{ID: "anthropic/claude-4-sonnet-20250522", Name: "Claude 4 Sonnet", Provider: "openrouter"},
	{ID: "meta-llama/llama-4-maverick", Name: "Llama 4 Maverick", Provider: "openrouter"},
	{ID: "mistralai/mistral-small-3.1-24b-instruct", Name: "Mistral Small 3.1 24B Instruct", Provider: "openrouter"},
}

// LookupModel finds a catalog entry by id
func LookupModel(id string) (Model, bool) {
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// DisplayName returns the catalog name for id, or id itself
func DisplayName(id string) string {
	if m, ok := LookupModel(id); ok {
		return m.Name
	}
	return id
}
