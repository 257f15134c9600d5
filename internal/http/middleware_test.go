package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("assigns a request id and exposes the logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		var seenID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := RequestIDFromContext(r.Context())
			if !ok {
				t.Errorf("expected request id in context")
			}
			seenID = id
			if LoggerFromContext(r.Context()) == nil {
				t.Errorf("expected logger in context")
			}
			w.WriteHeader(http.StatusTeapot)
		})

		rec := httptest.NewRecorder()
		RequestLogger(logger)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		header := rec.Header().Get(RequestIDHeader)
		if header == "" || header != seenID {
			t.Fatalf("expected response header to echo context id, got %q vs %q", header, seenID)
		}
		if _, err := uuid.Parse(header); err != nil {
			t.Fatalf("expected uuid request id, got %q", header)
		}

		var completed map[string]any
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		if len(lines) != 2 {
			t.Fatalf("expected start and completion lines, got %d", len(lines))
		}
		if err := json.Unmarshal(lines[1], &completed); err != nil {
			t.Fatalf("failed to decode log line: %v", err)
		}
		if completed["status"] != float64(http.StatusTeapot) || completed["request_id"] != header {
			t.Fatalf("unexpected completion log %v", completed)
		}
	})

	t.Run("reuses a well-formed incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, incoming)
		rec := httptest.NewRecorder()
		RequestLogger(quietLogger())(http.NotFoundHandler()).ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got != incoming {
			t.Fatalf("expected %q, got %q", incoming, got)
		}
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		rec := httptest.NewRecorder()
		RequestLogger(quietLogger())(http.NotFoundHandler()).ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
			t.Fatalf("expected a fresh id, got %q", got)
		}
	})
}
