package api

import (
	"github.com/rs/zerolog/log"

	"github.com/Rrens/prompt-playground/internal/config"
	"github.com/Rrens/prompt-playground/internal/llm"
	"github.com/Rrens/prompt-playground/internal/llm/anthropic"
	"github.com/Rrens/prompt-playground/internal/llm/gemini"
	"github.com/Rrens/prompt-playground/internal/llm/ollama"
	"github.com/Rrens/prompt-playground/internal/llm/openai"
)

// NewLLMRouter registers every provider the configuration enables.
// OpenRouter is always registered because it serves the model catalog.
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)
	timeout := cfg.RequestTimeout

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	router.RegisterProvider(openai.NewOpenRouter(cfg.OpenRouter, timeout))
	if cfg.OpenRouter.APIKey == "" {
		log.Warn().Msg("OpenRouter API key is empty, catalog models will fail until it is set")
	}

	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI, timeout))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic, timeout))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(openai.NewDeepSeek(cfg.DeepSeek, timeout))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama, timeout))
	}

	log.Info().Strs("providers", router.ListProviders()).Msg("LLM providers registered")
	return router
}
