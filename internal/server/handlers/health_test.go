package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubReadiness struct {
	ok  bool
	err error
}

func (s stubReadiness) IsDatabaseRunning(context.Context) (bool, error) {
	return s.ok, s.err
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want %q", body.Status, "ok")
	}
}

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name       string
		db         stubReadiness
		wantStatus int
		wantBody   string
	}{
		{
			name:       "database reachable",
			db:         stubReadiness{ok: true},
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name:       "database error",
			db:         stubReadiness{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "database unavailable",
		},
		{
			name:       "database not ready",
			db:         stubReadiness{ok: false},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "database unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleReadiness(tt.db)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body healthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Errorf("status = %q, want %q", body.Status, tt.wantBody)
			}
		})
	}
}
