package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

func TestGenerateSendsPromptAndOptions(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"  plain answer \n","done":true}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", time.Second, nil)
	text, err := client.Generate(context.Background(), "Summarize this.", domain.GenerationParams{Temperature: 0.3})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "plain answer" {
		t.Fatalf("expected trimmed answer, got %q", text)
	}
	if captured.Prompt != "Summarize this." || captured.Model != "llama3.1:8b" || captured.Stream {
		t.Fatalf("unexpected request: %+v", captured)
	}
	if captured.Options.NumPredict != domain.MaxOutputTokens || captured.Options.Temperature != 0.3 {
		t.Fatalf("unexpected options: %+v", captured.Options)
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, "gen", time.Second, nil).Generate(context.Background(), "hi", domain.GenerationParams{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}
}

func TestGenerateMapsStatusToDomainKind(t *testing.T) {
	cases := []struct {
		status int
		kind   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusTooManyRequests, domain.ErrQuotaExceeded},
		{http.StatusServiceUnavailable, domain.ErrTemporary},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_, err := New(server.URL, "gen", time.Second, nil).Generate(context.Background(), "hi", domain.GenerationParams{})
		server.Close()
		if !domain.IsKind(err, tc.kind) {
			t.Fatalf("status %d: expected kind %v, got %v", tc.status, tc.kind, err)
		}
	}
}

func TestGenerateRejectsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(server.URL, "gen", time.Second, nil).Generate(context.Background(), "hi", domain.GenerationParams{})
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response kind, got %v", err)
	}
}
