package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogger_CapturesStatusAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found"}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/coffee-entries/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}

	logged := buf.String()
	for _, want := range []string{"request completed", "method=GET", "status=404", "path=/coffee-entries/missing"} {
		if !bytes.Contains([]byte(logged), []byte(want)) {
			t.Errorf("log output missing %q: %s", want, logged)
		}
	}
}

func TestLogger_DefaultsTo200(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// Handler that never calls WriteHeader explicitly.
	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !bytes.Contains(buf.Bytes(), []byte("status=200")) {
		t.Errorf("log output missing default status=200: %s", buf.String())
	}
}
