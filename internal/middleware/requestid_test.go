package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var inContext string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inContext = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	echoed := rec.Header().Get("X-Request-Id")
	if echoed == "" {
		t.Fatal("response has no X-Request-Id header")
	}
	if inContext != echoed {
		t.Fatalf("context id = %q, header id = %q", inContext, echoed)
	}
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	var inContext string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inContext = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-id-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if inContext != "client-id-42" {
		t.Fatalf("context id = %q, want client-id-42", inContext)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "client-id-42" {
		t.Fatalf("header id = %q, want client-id-42", got)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := RequestIDFromContext(req.Context()); id != "" {
		t.Fatalf("id = %q, want empty", id)
	}
}
