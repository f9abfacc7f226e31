package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/prompt-playground/internal/api/handler"
	customMiddleware "github.com/Rrens/prompt-playground/internal/api/middleware"
	"github.com/Rrens/prompt-playground/internal/config"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/llm"
	"github.com/Rrens/prompt-playground/internal/security"
	"github.com/Rrens/prompt-playground/internal/service"
	"github.com/Rrens/prompt-playground/internal/store"
	"github.com/Rrens/prompt-playground/internal/usage"
)

// Dependencies are the long-lived components the router serves
type Dependencies struct {
	Blobs domain.BlobStore
	LLM   *llm.Router
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter customMiddleware.Limiter
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize stores
	promptStore := store.NewPromptStore(deps.Blobs)
	conversationStore := store.NewConversationStore(deps.Blobs)

	// Initialize services
	promptService := service.NewPromptService(promptStore, usage.NewEstimator())
	conversationService := service.NewConversationService(conversationStore)
	sessionService := service.NewSessionService(deps.LLM, promptStore, conversationStore, cfg.LLM.Temperature, cfg.LLM.DefaultModel)

	// Initialize handlers
	promptHandler := handler.NewPromptHandler(promptService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	var (
		authMiddleware *customMiddleware.AuthMiddleware
		authHandler    *handler.AuthHandler
	)
	if cfg.Auth.Enabled {
		jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
		authService := service.NewAuthService(cfg.Auth.Username, cfg.Auth.PasswordHash, jwtManager)
		authHandler = handler.NewAuthHandler(authService)
		authMiddleware = customMiddleware.NewAuthMiddleware(jwtManager)
	} else {
		log.Warn().Msg("Authentication disabled, API is open")
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Blobs))

		if authHandler != nil {
			r.Post("/auth/login", authHandler.Login)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			if authMiddleware != nil {
				r.Use(authMiddleware.Authenticate)
			}
			if deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			}

			r.Get("/models", handler.ListModels(deps.LLM))
			r.Post("/tokens/estimate", promptHandler.EstimateTokens)

			r.Route("/prompts", func(r chi.Router) {
				r.Get("/", promptHandler.List)
				r.Post("/", promptHandler.Save)
				r.Get("/export", promptHandler.Export)
				r.Post("/import", promptHandler.Import)
				r.Post("/decode", promptHandler.Decode)
				r.Get("/by-name/{name}", promptHandler.GetByName)

				r.Route("/{promptID}", func(r chi.Router) {
					r.Get("/", promptHandler.Get)
					r.Delete("/", promptHandler.Delete)
					r.Get("/markdown", promptHandler.Markdown)
				})
			})

			r.Get("/draft", promptHandler.GetDraft)
			r.Put("/draft", promptHandler.PutDraft)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", conversationHandler.List)
				r.Delete("/", conversationHandler.Clear)
				r.Get("/{conversationID}", conversationHandler.Get)
				r.Delete("/{conversationID}", conversationHandler.Delete)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.Create)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Delete("/", sessionHandler.Delete)
					r.Post("/messages", sessionHandler.SendMessage)
					r.Put("/prompt", sessionHandler.SetPrompt)
					r.Put("/model", sessionHandler.SetModel)
					r.Post("/reset", sessionHandler.Reset)
					r.Post("/reset-usage", sessionHandler.ResetUsage)
					r.Post("/save", sessionHandler.Save)
				})
			})
		})
	})

	return r
}
