package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

// Policy controls when a provider breaker opens and how many trial calls it lets
// through once the open timeout elapses.
type Policy struct {
	Enabled       bool
	MinRequests   uint32
	FailureRatio  float64
	OpenTimeout   time.Duration
	HalfOpenCalls uint32
}

func DefaultPolicy() Policy {
	return Policy{
		Enabled:       true,
		MinRequests:   5,
		FailureRatio:  0.6,
		OpenTimeout:   30 * time.Second,
		HalfOpenCalls: 1,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MinRequests == 0 {
		p.MinRequests = def.MinRequests
	}
	if p.FailureRatio <= 0 || p.FailureRatio > 1 {
		p.FailureRatio = def.FailureRatio
	}
	if p.OpenTimeout <= 0 {
		p.OpenTimeout = def.OpenTimeout
	}
	if p.HalfOpenCalls == 0 {
		p.HalfOpenCalls = def.HalfOpenCalls
	}
	return p
}

func (p Policy) shouldTrip(counts gobreaker.Counts) bool {
	if counts.Requests < p.MinRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= p.FailureRatio
}

// providerAtFault reports whether a failed generation says the provider itself is unhealthy.
// Rejected keys, exhausted quota, unusable replies and caller cancellation leave the breaker alone.
func providerAtFault(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case domain.IsKind(err, domain.ErrTemporary):
		return true
	case domain.IsKind(err, domain.ErrUnauthorized),
		domain.IsKind(err, domain.ErrQuotaExceeded),
		domain.IsKind(err, domain.ErrMalformedResponse),
		domain.IsKind(err, domain.ErrInvalidInput):
		return false
	default:
		return true
	}
}
