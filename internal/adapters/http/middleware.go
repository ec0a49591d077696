package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-Id"
	sessionLogPrefix  = len("sess_") + 8
	unmatchedRouteLog = "unmatched"
)

// requestTrace is filled in by inner middleware and read by the access log
// after the handler returns.
type requestTrace struct {
	requestID string
	sessionID string
}

type traceContextKey struct{}

func traceFromContext(ctx context.Context) *requestTrace {
	if ctx == nil {
		return nil
	}
	trace, _ := ctx.Value(traceContextKey{}).(*requestTrace)
	return trace
}

func requestIDFromContext(ctx context.Context) string {
	if trace := traceFromContext(ctx); trace != nil {
		return trace.requestID
	}
	return ""
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), traceContextKey{}, &requestTrace{requestID: requestID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLogMiddleware writes one http_request line per request with the chat and
// instruction it touched. Only a prefix of the session id is logged.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(recorder, r)

		attrs := []any{
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"route", routePattern(r),
			"status", recorder.statusCode,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes", recorder.bytesWritten,
			"remote_addr", clientHost(r.RemoteAddr),
		}
		if trace := traceFromContext(r.Context()); trace != nil && trace.sessionID != "" {
			attrs = append(attrs, "session", sessionLogID(trace.sessionID))
		}
		if chatID := chi.URLParam(r, "chatID"); chatID != "" {
			attrs = append(attrs, "chat_id", chatID)
		}
		if mode := chi.URLParam(r, "mode"); mode != "" {
			attrs = append(attrs, "mode", mode)
		}

		switch {
		case recorder.statusCode >= 500:
			slog.Error("http_request", attrs...)
		case recorder.statusCode >= 400:
			slog.Warn("http_request", attrs...)
		default:
			slog.Info("http_request", attrs...)
		}
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRouteLog
}

func sessionLogID(sessionID string) string {
	if len(sessionID) <= sessionLogPrefix {
		return sessionID
	}
	return sessionID[:sessionLogPrefix]
}

func clientHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}
