package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/config"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/llm/ollama"
)

func testConfig() config.Config {
	return config.Config{
		UILayout:    config.LayoutTabs,
		LLMProvider: config.ProviderOllama,
		LLMModel:    "llama3.1:8b",
		LLMTimeout:  time.Second,
		OllamaURL:   "http://127.0.0.1:0",
		SessionTTL:  time.Hour,

		BreakerEnabled: true,
	}
}

func TestNewWiresOllamaProvider(t *testing.T) {
	app, err := New(context.Background(), testConfig(), "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if app.Chats == nil || app.Pages == nil || app.Metrics == nil {
		t.Fatalf("expected fully wired app: %+v", app)
	}

	rec := httptest.NewRecorder()
	app.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if want := `lds_llm_breaker_state{provider="ollama",service="test"} 0`; !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("expected %q in exposition:\n%s", want, rec.Body.String())
	}

	view, err := app.Chats.Snapshot(context.Background(), "sess")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if view.CurrentChat != nil {
		t.Fatalf("expected empty workspace")
	}
}

func TestNewGeneratorSelectsProvider(t *testing.T) {
	generator, err := NewGenerator(context.Background(), testConfig(), nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if _, ok := generator.(*ollama.Client); !ok {
		t.Fatalf("expected ollama client, got %T", generator)
	}

	cfg := testConfig()
	cfg.LLMProvider = config.ProviderGemini
	if _, err := NewGenerator(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected missing gemini key to fail")
	}

	cfg.LLMProvider = "openai"
	if _, err := NewGenerator(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}
}
