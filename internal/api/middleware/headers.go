package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/logging"
)

// The API only serves JSON, so nothing may be loaded or framed.
const contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

// IsRequestSecure reports whether the request arrived over TLS, directly or
// through a proxy that sets X-Forwarded-Proto.
func IsRequestSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// SecurityHeaders adds security-related HTTP headers to responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("Cache-Control", "no-store")

		if IsRequestSecure(r) {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// Recoverer recovers from panics, logs them with stack trace, reports them to
// Sentry when a client is configured, and returns a 500 error.
func Recoverer(next http.Handler) http.Handler {
	log := logging.Component("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"request_id": GetRequestID(r.Context()),
					"request":    r.Method + " " + r.URL.Path,
					"stack":      string(debug.Stack()),
				}).Errorf("PANIC recovered: %v", err)
				sentry.WithScope(func(scope *sentry.Scope) {
					scope.SetTag("request_id", GetRequestID(r.Context()))
					scope.SetRequest(r)
					sentry.CurrentHub().Recover(err)
				})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if _, writeErr := w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`)); writeErr != nil {
					log.WithError(writeErr).Warn("failed to write error response")
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
