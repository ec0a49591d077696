package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

type stateObserverFake struct {
	mu     sync.Mutex
	states []string
}

func (o *stateObserverFake) RecordBreakerState(provider, state string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, provider+":"+state)
}

func (o *stateObserverFake) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.states...)
}

func unavailable() error {
	return domain.WrapError(domain.ErrTemporary, "gemini generate content", errors.New("503 service unavailable"))
}

func TestCallRunsOperationOnce(t *testing.T) {
	pb := NewProviderBreaker("gemini", Policy{Enabled: false}, nil)

	attempts := 0
	err := pb.Call(context.Background(), func(context.Context) error {
		attempts++
		return unavailable()
	})
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestCallOpensAfterProviderOutage(t *testing.T) {
	observer := &stateObserverFake{}
	pb := NewProviderBreaker("gemini", Policy{
		Enabled:       true,
		MinRequests:   2,
		FailureRatio:  0.5,
		OpenTimeout:   time.Minute,
		HalfOpenCalls: 1,
	}, observer)

	for i := 0; i < 2; i++ {
		if err := pb.Call(context.Background(), func(context.Context) error { return unavailable() }); !domain.IsKind(err, domain.ErrTemporary) {
			t.Fatalf("iteration %d: expected temporary error, got %v", i, err)
		}
	}

	err := pb.Call(context.Background(), func(context.Context) error {
		t.Fatalf("open breaker must not call the provider")
		return nil
	})
	if !domain.IsKind(err, domain.ErrTemporary) || !IsOpen(err) {
		t.Fatalf("expected fast temporary failure from open breaker, got %v", err)
	}

	states := observer.snapshot()
	if len(states) != 2 || states[0] != "gemini:closed" || states[1] != "gemini:open" {
		t.Fatalf("unexpected state transitions: %v", states)
	}
}

func TestCallIgnoresFailuresThatAreNotTheProviders(t *testing.T) {
	pb := NewProviderBreaker("ollama", Policy{Enabled: true, MinRequests: 1, FailureRatio: 0.1}, nil)

	failures := []error{
		domain.WrapError(domain.ErrUnauthorized, "gemini generate content", errors.New("bad key")),
		domain.WrapError(domain.ErrQuotaExceeded, "gemini generate content", errors.New("resource exhausted")),
		domain.WrapError(domain.ErrMalformedResponse, "gemini generate content", errors.New("empty text")),
		context.Canceled,
	}
	for i := 0; i < 3; i++ {
		for _, failure := range failures {
			calls := 0
			err := pb.Call(context.Background(), func(context.Context) error {
				calls++
				return failure
			})
			if !errors.Is(err, failure) || calls != 1 {
				t.Fatalf("expected %v passed through, got %v (calls=%d)", failure, err, calls)
			}
		}
	}
}

func TestPolicyDefaultsFillZeroValues(t *testing.T) {
	got := Policy{Enabled: true, FailureRatio: 3}.withDefaults()
	def := DefaultPolicy()
	if got.MinRequests != def.MinRequests || got.FailureRatio != def.FailureRatio || got.OpenTimeout != def.OpenTimeout || got.HalfOpenCalls != def.HalfOpenCalls {
		t.Fatalf("unexpected policy %+v", got)
	}
}
