package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	t.Run("generates request ID when not provided", func(t *testing.T) {
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			if requestID == "" {
				t.Error("expected request ID to be set in context")
			}

			if _, err := uuid.Parse(requestID); err != nil {
				t.Errorf("expected a UUID, got %q: %v", requestID, err)
			}

			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		responseID := rec.Header().Get("X-Request-ID")
		if responseID == "" {
			t.Error("expected X-Request-ID header in response")
		}

		if _, err := uuid.Parse(responseID); err != nil {
			t.Errorf("expected X-Request-ID to be a UUID, got %q", responseID)
		}
	})

	t.Run("uses client-provided request ID", func(t *testing.T) {
		expectedID := "client-request-123"
		var actualID string

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actualID = GetRequestID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", expectedID)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if actualID != expectedID {
			t.Errorf("expected request ID %q, got %q", expectedID, actualID)
		}

		responseID := rec.Header().Get("X-Request-ID")
		if responseID != expectedID {
			t.Errorf("expected X-Request-ID header %q, got %q", expectedID, responseID)
		}
	})

	t.Run("request ID is accessible in context", func(t *testing.T) {
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			if requestID == "" {
				t.Error("GetRequestID returned empty string")
			}
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
	})

	t.Run("GetRequestID returns empty string when not set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		requestID := GetRequestID(req.Context())

		if requestID != "" {
			t.Errorf("expected empty string, got %q", requestID)
		}
	})

	t.Run("generates unique IDs for different requests", func(t *testing.T) {
		ids := make(map[string]bool)

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			ids[requestID] = true
			w.WriteHeader(http.StatusOK)
		}))

		// Make multiple requests
		for i := 0; i < 100; i++ {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
		}

		// All IDs should be unique
		if len(ids) != 100 {
			t.Errorf("expected 100 unique IDs, got %d", len(ids))
		}
	})
}

func TestGenerateRequestID(t *testing.T) {
	t.Run("generates non-empty ID", func(t *testing.T) {
		id := generateRequestID()
		if id == "" {
			t.Error("generateRequestID returned empty string")
		}
	})

	t.Run("generates different IDs", func(t *testing.T) {
		id1 := generateRequestID()
		id2 := generateRequestID()

		if id1 == id2 {
			t.Error("generateRequestID returned same ID twice")
		}
	})

	t.Run("generates version 4 UUID", func(t *testing.T) {
		parsed, err := uuid.Parse(generateRequestID())
		if err != nil {
			t.Fatalf("expected UUID: %v", err)
		}
		if parsed.Version() != 4 {
			t.Errorf("expected version 4, got %d", parsed.Version())
		}
	})
}

func TestRequestID_RejectsUnsafeClientIDs(t *testing.T) {
	testCases := []struct {
		name string
		id   string
	}{
		{name: "newline", id: "abc\ninjected"},
		{name: "space", id: "abc def"},
		{name: "too long", id: strings.Repeat("a", 129)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header[RequestIDHeader] = []string{tc.id}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got == tc.id {
				t.Fatalf("expected unsafe ID %q to be replaced", tc.id)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected generated UUID, got %q", got)
			}
		})
	}
}
