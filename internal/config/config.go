package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort  int    `mapstructure:"APP_PORT" validate:"min=1,max=65535"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	AccessPassword string        `mapstructure:"ACCESS_PASSWORD" validate:"required"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`

	CompletionProvider  string `mapstructure:"COMPLETION_PROVIDER" validate:"oneof=openai anthropic"`
	CompletionModel     string `mapstructure:"COMPLETION_MODEL" validate:"required"`
	CompletionMaxTokens int64  `mapstructure:"COMPLETION_MAX_TOKENS" validate:"gt=0"`
	OpenAIAPIKey        string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `mapstructure:"OPENAI_BASE_URL" validate:"required,url"`
	AnthropicAPIKey     string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL    string `mapstructure:"ANTHROPIC_BASE_URL" validate:"omitempty,url"`

	MaxUploadBytes   int64 `mapstructure:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	MaxDocumentChars int   `mapstructure:"MAX_DOCUMENT_CHARS" validate:"min=0"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	FrontendDir        string   `mapstructure:"FRONTEND_DIR"`

	OTLPEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

// Default completion models, chosen by COMPLETION_PROVIDER when
// COMPLETION_MODEL is not set.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-0"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", 8000)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("ACCESS_PASSWORD", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COMPLETION_PROVIDER", "openai")
	v.SetDefault("COMPLETION_MODEL", "")
	v.SetDefault("COMPLETION_MAX_TOKENS", 4096)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("ANTHROPIC_BASE_URL", "")
	v.SetDefault("MAX_UPLOAD_BYTES", 50<<20)
	v.SetDefault("MAX_DOCUMENT_CHARS", 0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("FRONTEND_DIR", "./frontend/dist")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "legis-pro")
}

// LoadConfig reads configuration from an optional .env file and the
// environment, environment taking precedence.
func LoadConfig() (*Config, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigins = splitList(cfg.CORSAllowedOrigins)
	if cfg.CompletionModel == "" {
		cfg.CompletionModel = defaultModel(cfg.CompletionProvider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and the provider-specific key requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.CompletionProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("invalid configuration: OPENAI_API_KEY is required for provider %q", c.CompletionProvider)
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("invalid configuration: ANTHROPIC_API_KEY is required for provider %q", c.CompletionProvider)
		}
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == "anthropic" {
		return DefaultAnthropicModel
	}
	return DefaultOpenAIModel
}

// splitList flattens comma separated entries, which is how list values
// arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
