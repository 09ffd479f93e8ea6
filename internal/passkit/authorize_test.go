package passkit

import (
	"context"
	"errors"
	"testing"
)

type failingPassStore struct {
	PassStore
	err error
}

func (s failingPassStore) GetPass(context.Context, string) (Pass, error) {
	return Pass{}, s.err
}

func TestAuthorizePass(t *testing.T) {
	store := newFakePassStore(Pass{
		Serial:     "serial-1",
		PassTypeID: "pass.example.membership",
		AuthToken:  "secret-token",
	})

	tests := []struct {
		name       string
		serial     string
		passTypeID string
		token      string
		wantCode   ErrorCode
	}{
		{
			name:       "valid credential",
			serial:     "serial-1",
			passTypeID: "pass.example.membership",
			token:      "secret-token",
		},
		{
			name:       "wrong token",
			serial:     "serial-1",
			passTypeID: "pass.example.membership",
			token:      "wrong-token",
			wantCode:   ErrCodeUnauthorized,
		},
		{
			name:       "wrong pass type",
			serial:     "serial-1",
			passTypeID: "pass.example.other",
			token:      "secret-token",
			wantCode:   ErrCodeUnauthorized,
		},
		{
			name:       "unknown serial",
			serial:     "serial-404",
			passTypeID: "pass.example.membership",
			token:      "secret-token",
			wantCode:   ErrCodeUnauthorized,
		},
		{
			name:       "empty token",
			serial:     "serial-1",
			passTypeID: "pass.example.membership",
			token:      "",
			wantCode:   ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, err := AuthorizePass(context.Background(), store, tt.serial, tt.passTypeID, tt.token)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("AuthorizePass() error = %v, want nil", err)
				}
				if pass.Serial != tt.serial {
					t.Errorf("authorized serial = %s, want %s", pass.Serial, tt.serial)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if CodeOf(err) != tt.wantCode {
				t.Errorf("error code = %v, want %v", CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestAuthorizePassStoreFailureIsNotUnauthorized(t *testing.T) {
	store := failingPassStore{err: errors.New("connection refused")}

	_, err := AuthorizePass(context.Background(), store, "serial-1", "pass.example.membership", "secret-token")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if CodeOf(err) != ErrCodeDependency {
		t.Errorf("error code = %v, want ErrCodeDependency", CodeOf(err))
	}
}
