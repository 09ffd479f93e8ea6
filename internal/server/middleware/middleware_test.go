package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "body read failed", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestSizeLimit(t *testing.T) {
	handler := RequestSizeLimit(16)(okHandler())

	small := httptest.NewRequest("POST", "/", strings.NewReader("tiny"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, small)
	if rec.Code != http.StatusOK {
		t.Errorf("small body: status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Max-Request-Size"); got != "16" {
		t.Errorf("X-Max-Request-Size = %q, want 16", got)
	}

	big := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, big)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: status = %d, want 413", rec.Code)
	}
}

func TestRequestSizeLimitWithoutContentLength(t *testing.T) {
	handler := RequestSizeLimit(16)(okHandler())

	// No Content-Length; the reader cap has to catch the oversized body.
	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders("dev")(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set in dev: %q", got)
	}

	handler = SecurityHeaders("prod")(okHandler())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("HSTS missing in prod")
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1, 2)(okHandler())

	statuses := make([]int, 0, 4)
	for range 4 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		statuses = append(statuses, rec.Code)
	}

	// Burst of 2 passes, the rest of the tight loop is rejected.
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests rejected: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests && statuses[3] != http.StatusTooManyRequests {
		t.Errorf("no request rejected over the limit: %v", statuses)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, 0)(okHandler())

	for range 50 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d with limiting disabled, want 200", rec.Code)
		}
	}
}
