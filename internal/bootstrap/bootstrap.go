package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legal-doc-simplifier/internal/config"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/ports"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/usecase"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/extractor"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/resilience"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/session/memory"
	"github.com/kirillkom/legal-doc-simplifier/internal/observability/metrics"
	"github.com/kirillkom/legal-doc-simplifier/web"
)

type App struct {
	Config config.Config

	Metrics *metrics.Metrics
	Pages   *web.Renderer
	Chats   ports.ChatService
}

// New wires the process: provider client, extractor, session store and the chat use case.
func New(ctx context.Context, cfg config.Config, service string, logger *slog.Logger) (*App, error) {
	appMetrics := metrics.New(service)

	generator, err := NewGenerator(ctx, cfg, appMetrics)
	if err != nil {
		return nil, err
	}
	gateway := usecase.NewModelGateway(generator, cfg.LLMModel, appMetrics)

	prompts, err := usecase.NewPromptBuilder(cfg.UILayout)
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	pages, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load page templates: %w", err)
	}

	textExtractor := extractor.New(logger)
	store := memory.NewStore(cfg.SessionTTL)
	chats := usecase.NewChatUseCase(store, textExtractor, prompts, gateway, appMetrics)

	return &App{
		Config:  cfg,
		Metrics: appMetrics,
		Pages:   pages,
		Chats:   chats,
	}, nil
}

// NewGenerator builds the configured provider client behind a circuit breaker.
// observer may be nil.
func NewGenerator(ctx context.Context, cfg config.Config, observer resilience.StateObserver) (ports.TextGenerator, error) {
	policy := resilience.Policy{
		Enabled:       cfg.BreakerEnabled,
		MinRequests:   cfg.BreakerMinRequests,
		FailureRatio:  cfg.BreakerFailureRatio,
		OpenTimeout:   cfg.BreakerOpenTimeout,
		HalfOpenCalls: cfg.BreakerHalfOpenMaxCalls,
	}
	breaker := resilience.NewProviderBreaker(cfg.LLMProvider, policy, observer)

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout, breaker)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return client, nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.LLMModel, cfg.LLMTimeout, breaker), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
