// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/logging"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request id assigned by RequestLogger.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// RequestLogger returns a middleware that logs HTTP requests. Failed
// requests are always logged; successful ones only when verbose.
func RequestLogger(verbose bool) func(http.Handler) http.Handler {
	log := logging.Component("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()[:8]

			w.Header().Set("X-Request-ID", requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			if !verbose && wrapped.status < 400 {
				return
			}
			entry := log.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     wrapped.status,
				"size":       wrapped.size,
				"duration":   time.Since(start),
			})
			switch {
			case wrapped.status >= 500:
				entry.Error("request failed")
			case wrapped.status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
		})
	}
}
