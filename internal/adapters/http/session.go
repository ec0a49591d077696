package httpadapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

const (
	SessionCookieName = "lds_session"
	sessionCookieAge  = 7 * 24 * time.Hour
)

type sessionContextKey struct{}

var sessionIDPattern = regexp.MustCompile(`^sess_[a-f0-9]{32}$`)

func sessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionContextKey{}).(string)
	return sessionID
}

func generateSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return "sess_" + hex.EncodeToString(buf), nil
}

// sessionMiddleware gives every browser an opaque session cookie; the id keys its workspace.
func sessionMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(SessionCookieName); err == nil && sessionIDPattern.MatchString(c.Value) {
				sessionID = c.Value
			} else {
				generated, err := generateSessionID()
				if err != nil {
					http.Error(w, "failed to establish session", http.StatusInternalServerError)
					return
				}
				sessionID = generated
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(sessionCookieAge.Seconds()),
				Expires:  time.Now().Add(sessionCookieAge),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   secure,
			})

			if trace := traceFromContext(r.Context()); trace != nil {
				trace.sessionID = sessionID
			}
			ctx := context.WithValue(r.Context(), sessionContextKey{}, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
