package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jravahfoods/storefront/pkg/logger"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "jravah_session"
)

// SessionOptions controls the shopper session cookie.
type SessionOptions struct {
	TTL    time.Duration
	Secure bool
}

// Session resolves the shopper session from the X-Session-Id header or the
// jravah_session cookie. Missing or malformed ids are replaced with a fresh
// one, which is returned in both the header and the cookie.
func Session(opts SessionOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessionFromRequest(r)
			if !ok {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request) (string, bool) {
	if id, ok := parseSessionID(r.Header.Get(SessionHeader)); ok {
		return id, true
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return parseSessionID(cookie.Value)
	}
	return "", false
}

func parseSessionID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
