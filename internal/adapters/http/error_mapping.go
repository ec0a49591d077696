package httpadapter

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrChatNotFound), domain.IsKind(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// warningText turns a use-case error into the banner shown above the chat.
func warningText(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrChatNotFound):
		return "That chat does not exist in this session."
	case domain.IsKind(err, domain.ErrInvalidInput):
		msg := err.Error()
		marker := domain.ErrInvalidInput.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 {
			msg = msg[i+len(marker):]
		}
		return sentence(msg)
	default:
		return "Something went wrong. Please try again."
	}
}

func sentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
