package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServer_Handler(t *testing.T) {
	StoreMutationsTotal.WithLabelValues("task", "create").Inc()
	SetBuildInfo("test", "abc123", "now")

	s := NewServer(":0")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`collabhub_store_mutations_total{kind="task",op="create"}`,
		`collabhub_build_info{build_time="now",commit="abc123",version="test"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}

	if s.Addr() != ":0" {
		t.Errorf("Addr() = %q", s.Addr())
	}
}
