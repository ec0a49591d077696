package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Post("/chats/{chatID}/ask", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/chats/abc/ask", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/chats/def/ask", nil))

	body := scrape(t, m)
	want := `lds_http_requests_total{method="POST",path="/chats/{chatID}/ask",service="test",status="400"} 2`
	if !strings.Contains(body, want) {
		t.Fatalf("expected %q in exposition:\n%s", want, body)
	}
}

func TestMiddlewareCollapsesUnmatchedPaths(t *testing.T) {
	m := New("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/nope-%d", i), nil))
	}

	body := scrape(t, m)
	if strings.Contains(body, "nope") {
		t.Fatalf("raw paths leaked into labels:\n%s", body)
	}
	want := `lds_http_requests_total{method="GET",path="unmatched",service="test",status="404"} 3`
	if !strings.Contains(body, want) {
		t.Fatalf("expected %q in exposition:\n%s", want, body)
	}
}

func TestExtractionSeriesStartAtZero(t *testing.T) {
	body := scrape(t, New("test"))
	for _, want := range []string{
		`lds_extractor_documents_total{format="docx",service="test",status="failed"} 0`,
		`lds_extractor_documents_total{format="pdf",service="test",status="ok"} 0`,
		`lds_extractor_documents_total{format="unsupported",service="test",status="unsupported"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in exposition:\n%s", want, body)
		}
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics handler status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestUsageRecording(t *testing.T) {
	m := New("test")
	m.RecordExtraction(domain.FormatPDF, "failed")
	m.RecordGeneration(domain.ModeSummarize, "ok", 1200, 2*time.Second)
	m.RecordGeneration("", "quota", 10, time.Second)

	body := scrape(t, m)
	for _, want := range []string{
		`lds_extractor_documents_total{format="pdf",service="test",status="failed"} 1`,
		`lds_llm_generations_total{mode="summarize",service="test",status="ok"} 1`,
		`lds_llm_generations_total{mode="direct",service="test",status="quota"} 1`,
		`lds_llm_prompt_chars_count{mode="summarize",service="test"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in exposition:\n%s", want, body)
		}
	}
}

func TestRecordBreakerState(t *testing.T) {
	m := New("test")
	m.RecordBreakerState("gemini", "closed")
	m.RecordBreakerState("gemini", "open")
	m.RecordBreakerState("ollama", "half-open")

	body := scrape(t, m)
	for _, want := range []string{
		`lds_llm_breaker_state{provider="gemini",service="test"} 2`,
		`lds_llm_breaker_state{provider="ollama",service="test"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in exposition:\n%s", want, body)
		}
	}
}
