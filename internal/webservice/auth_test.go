package webservice

import (
	"net/http/httptest"
	"testing"
)

func TestParseAuthorization(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{name: "valid", header: "ApplePass abc123", wantToken: "abc123", wantOK: true},
		{name: "missing header", header: "", wantOK: false},
		{name: "wrong scheme", header: "Bearer abc123", wantOK: false},
		{name: "lowercase scheme", header: "applepass abc123", wantOK: false},
		{name: "scheme only", header: "ApplePass", wantOK: false},
		{name: "empty token", header: "ApplePass   ", wantOK: false},
		{name: "token with surrounding space", header: "ApplePass  abc123 ", wantToken: "abc123", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, ok := ParseAuthorization(req)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && token != tt.wantToken {
				t.Errorf("token = %q, want %q", token, tt.wantToken)
			}
		})
	}
}
