package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "legis-pro/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      *AuthHandler
	Documents *DocumentHandler
	Chat      *ChatHandler
	Tone      *ToneHandler
}

// RouterConfig holds the router settings that come from configuration.
type RouterConfig struct {
	Sessions       *SessionManager
	AllowedOrigins []string
	FrontendDir    string
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.Sessions.Middleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/session", h.Auth.GetSession)
		})

		// Everything below requires a session that passed the password gate.
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))

				r.Get("/conversations", h.Chat.ListConversations)
				r.Post("/conversations", h.Chat.CreateConversation)
				r.Post("/conversations/select", h.Chat.SelectConversation)
				r.Get("/conversations/{conversationID}", h.Chat.GetConversation)

				r.Get("/tone", h.Tone.GetTone)
				r.Put("/tone", h.Tone.SaveTone)
				r.Post("/tone/reset", h.Tone.ResetTone)
			})

			// Long-running routes: uploads of large documents and completion
			// streams must NOT have a timeout.
			r.Group(func(r chi.Router) {
				r.Post("/documents", h.Documents.UploadDocument)
				r.Post("/messages", h.Chat.HandleStreamMessage)
			})
		})
	})

	// --- Frontend File Server ---
	if cfg.FrontendDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.FrontendDir))
		r.Handle("/*", fileServer)
	}

	return r
}
