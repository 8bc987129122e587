package middleware

import (
	"bytes"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logrus.SetOutput(&buf)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })
	return &buf
}

func TestRecoverer_LogsPanicWithStackTrace(t *testing.T) {
	buf := captureLogs(t)

	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic message")
	})
	handler := Recoverer(panicHandler)

	req := httptest.NewRequest("GET", "/test-endpoint", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s, want INTERNAL_ERROR", rec.Body.String())
	}

	logOutput := buf.String()
	for _, want := range []string{"PANIC recovered", "test panic message", "GET /test-endpoint", "goroutine"} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("Log missing %q: %s", want, logOutput)
		}
	}
}

func TestRecoverer_NoPanic(t *testing.T) {
	normalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler := Recoverer(normalHandler)

	req := httptest.NewRequest("GET", "/normal", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", rec.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", contentSecurityPolicy},
		{"Cache-Control", "no-store"},
		{"Strict-Transport-Security", ""},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.expected {
			t.Errorf("Header %s = %q, want %q", tt.header, got, tt.expected)
		}
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{"tls", func() *http.Request {
			r := httptest.NewRequest("GET", "/", nil)
			r.TLS = &tls.ConnectionState{}
			return r
		}},
		{"forwarded", func() *http.Request {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("X-Forwarded-Proto", "HTTPS")
			return r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tt.req())
			if rec.Header().Get("Strict-Transport-Security") == "" {
				t.Error("Strict-Transport-Security header not set")
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	buf := captureLogs(t)

	var seenID string
	handler := RequestLogger(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ok", nil))
	if id := rec.Header().Get("X-Request-ID"); id == "" || id != seenID {
		t.Errorf("X-Request-ID = %q, context id = %q", id, seenID)
	}
	if buf.Len() != 0 {
		t.Errorf("successful request logged without verbose: %s", buf.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))
	if !strings.Contains(buf.String(), "request rejected") || !strings.Contains(buf.String(), "/missing") {
		t.Errorf("404 not logged: %s", buf.String())
	}
}
