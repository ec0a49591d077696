package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	LayoutChat = "chat"
	LayoutTabs = "tabs"
)

type Config struct {
	APIPort  string `env:"API_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// UI
	UILayout            string        `env:"UI_LAYOUT" envDefault:"chat"`
	DefaultTemperature  float64       `env:"DEFAULT_TEMPERATURE" envDefault:"0.2"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	// Model provider
	LLMProvider  string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	OllamaURL    string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	// Traffic control, zero disables
	APIRateLimitRPS   float64 `env:"API_RATE_LIMIT_RPS" envDefault:"0"`
	APIRateLimitBurst int     `env:"API_RATE_LIMIT_BURST" envDefault:"0"`
	APIMaxInFlight    int     `env:"API_MAX_INFLIGHT" envDefault:"0"`

	// Provider circuit breaker
	BreakerEnabled          bool          `env:"BREAKER_ENABLED" envDefault:"true"`
	BreakerMinRequests      uint32        `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerFailureRatio     float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.6"`
	BreakerOpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
	BreakerHalfOpenMaxCalls uint32        `env:"BREAKER_HALF_OPEN_MAX_CALLS" envDefault:"1"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.UILayout = strings.ToLower(strings.TrimSpace(cfg.UILayout))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.UILayout {
	case LayoutChat, LayoutTabs:
	default:
		return fmt.Errorf("UI_LAYOUT must be %q or %q, got %q", LayoutChat, LayoutTabs, c.UILayout)
	}

	switch c.LLMProvider {
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=%s", ProviderGemini)
		}
	case ProviderOllama:
		if strings.TrimSpace(c.OllamaURL) == "" {
			return fmt.Errorf("OLLAMA_URL is required when LLM_PROVIDER=%s", ProviderOllama)
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOllama, c.LLMProvider)
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 1 {
		return fmt.Errorf("DEFAULT_TEMPERATURE must be within [0,1], got %v", c.DefaultTemperature)
	}
	if c.BreakerFailureRatio < 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be within [0,1], got %v", c.BreakerFailureRatio)
	}
	return nil
}
