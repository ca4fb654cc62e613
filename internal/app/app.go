package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"legis-pro/backend/internal/api"
	"legis-pro/backend/internal/auth"
	"legis-pro/backend/internal/config"
	"legis-pro/backend/internal/extract"
	"legis-pro/backend/internal/llm"
	"legis-pro/backend/internal/service"
	"legis-pro/backend/internal/session"
	"legis-pro/backend/internal/telemetry"
)

// Version is overridden at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

const shutdownTimeout = 15 * time.Second

// App holds the wired application.
type App struct {
	Server   *http.Server
	Sessions *session.Store
	Provider llm.Provider
}

// NewApp wires every component from cfg. It does not start listening.
func NewApp(cfg *config.Config) (*App, error) {
	gate, err := auth.NewGate(cfg.AccessPassword)
	if err != nil {
		return nil, fmt.Errorf("could not configure access password: %w", err)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = auth.GenerateSecret()
		if err != nil {
			return nil, err
		}
		slog.Warn("SESSION_SECRET is not set; using a random secret, sessions will not survive a restart")
	}
	tokens := auth.NewTokens(secret, cfg.SessionTTL)
	store := session.NewStore(cfg.SessionTTL)

	// No client timeout: completion streams can run for minutes and are bound
	// by the request context instead.
	provider, err := llm.NewProvider(cfg, &http.Client{})
	if err != nil {
		return nil, err
	}

	extractor := extract.New(cfg.MaxUploadBytes, cfg.MaxDocumentChars)

	authService := service.NewAuthService(gate, store)
	documentService := service.NewDocumentService(extractor)
	chatService := service.NewChatService(provider)
	toneService := service.NewToneService()

	sessions := api.NewSessionManager(store, tokens, cfg.CookieSecure)
	router := api.NewRouter(api.Handlers{
		Auth:      api.NewAuthHandler(authService, sessions),
		Documents: api.NewDocumentHandler(documentService, cfg.MaxUploadBytes),
		Chat:      api.NewChatHandler(chatService),
		Tone:      api.NewToneHandler(toneService),
	}, api.RouterConfig{
		Sessions:       sessions,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		FrontendDir:    cfg.FrontendDir,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{Server: server, Sessions: store, Provider: provider}, nil
}

// Run loads the configuration, serves until SIGINT or SIGTERM and returns the
// process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    cfg.OTELServiceName,
		ServiceVersion: Version,
	})
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to flush traces", "error", err)
		}
	}()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	slog.Info("Completion provider configured", "provider", app.Provider.Name(), "model", cfg.CompletionModel)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort, "version", Version)
		serverErr <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return 1
	}
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
