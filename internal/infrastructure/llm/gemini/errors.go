package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/genai"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

// apiErrorCode walks the wrap chain for the HTTP status carried by a genai API error.
func apiErrorCode(err error) (int, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case genai.APIError:
			return v.Code, true
		case *genai.APIError:
			if v != nil {
				return v.Code, true
			}
		}
	}
	return 0, false
}

// wrapDomainKind tags err with the domain kind the gateway reports to users.
func wrapDomainKind(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if code, ok := apiErrorCode(err); ok {
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return domain.WrapError(domain.ErrUnauthorized, operation, err)
		case code == http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrQuotaExceeded, operation, err)
		case code >= http.StatusInternalServerError:
			return domain.WrapError(domain.ErrTemporary, operation, err)
		default:
			return domain.WrapError(domain.ErrInvalidInput, operation, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
