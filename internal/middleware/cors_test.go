package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// CORSヘッダーが付与されることを検証
func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	handler := NewCORSMiddleware("http://localhost:3000")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/tiers", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q, want %q", got, "http://localhost:3000")
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Allow-Methods header")
	}
}

// OPTIONSプリフライトリクエストに204で応答することを検証
func TestCORSMiddleware_PreflightReturns204(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	handler := NewCORSMiddleware("http://localhost:3000")(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/tiers", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if nextCalled {
		t.Error("next handler must not be called for preflight")
	}
}
