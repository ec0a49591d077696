package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

// StateObserver is told whenever a provider breaker changes state.
type StateObserver interface {
	RecordBreakerState(provider, state string)
}

// ProviderBreaker runs each generation call exactly once and stops calling a
// provider that keeps failing. While open, calls fail fast as temporary failures.
type ProviderBreaker struct {
	provider string
	policy   Policy
	breaker  *gobreaker.CircuitBreaker[struct{}]
}

func NewProviderBreaker(provider string, policy Policy, observer StateObserver) *ProviderBreaker {
	policy = policy.withDefaults()
	pb := &ProviderBreaker{provider: provider, policy: policy}
	if !policy.Enabled {
		return pb
	}

	if observer != nil {
		observer.RecordBreakerState(provider, gobreaker.StateClosed.String())
	}
	pb.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        provider,
		MaxRequests: policy.HalfOpenCalls,
		Timeout:     policy.OpenTimeout,
		ReadyToTrip: policy.shouldTrip,
		IsSuccessful: func(err error) bool {
			return !providerAtFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("provider_breaker_state_change", "provider", name, "from", from.String(), "to", to.String())
			if observer != nil {
				observer.RecordBreakerState(name, to.String())
			}
		},
	})
	return pb
}

// Call runs fn once. fn is expected to return errors already tagged with a domain kind.
func (pb *ProviderBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("%s: generation callback is nil", pb.provider)
	}
	if pb.breaker == nil {
		return fn(ctx)
	}

	_, err := pb.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	if IsOpen(err) {
		return domain.WrapError(domain.ErrTemporary, pb.provider+" unavailable", err)
	}
	return err
}

func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
