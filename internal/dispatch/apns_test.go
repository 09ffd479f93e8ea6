package dispatch

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/walletpass/passd/internal/passkit"
)

func testProviderKey(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func testRegistration() passkit.Registration {
	return passkit.Registration{
		DeviceLibraryID: "device-a",
		Serial:          "serial-1",
		PassTypeID:      "pass.example.membership",
		PushToken:       "push-token-a",
	}
}

func newTestDispatcher(t *testing.T, srv *httptest.Server) *APNSDispatcher {
	t.Helper()
	d, err := NewAPNSDispatcher(APNSConfig{
		Host:   srv.URL,
		KeyID:  "KEY123",
		TeamID: "TEAM123",
		Key:    testProviderKey(t),
		Client: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewAPNSDispatcher() error = %v", err)
	}
	return d
}

func TestDispatchSendsBackgroundPush(t *testing.T) {
	var gotPath, gotTopic, gotAuth, gotPushType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTopic = r.Header.Get("apns-topic")
		gotAuth = r.Header.Get("authorization")
		gotPushType = r.Header.Get("apns-push-type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv)
	if err := d.Dispatch(context.Background(), testRegistration()); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if gotPath != "/3/device/push-token-a" {
		t.Errorf("path = %s, want /3/device/push-token-a", gotPath)
	}
	if gotTopic != "pass.example.membership" {
		t.Errorf("apns-topic = %s, want the pass type identifier", gotTopic)
	}
	if !strings.HasPrefix(gotAuth, "bearer ") {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}
	if gotPushType != "background" {
		t.Errorf("apns-push-type = %s, want background", gotPushType)
	}
}

func TestDispatchGoneTokenReportsUnregistered(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv)
	err := d.Dispatch(context.Background(), testRegistration())
	if err == nil {
		t.Fatal("expected error for gone token")
	}
	if !errors.Is(err, passkit.ErrUnregisteredDevice) {
		t.Errorf("error = %v, want ErrUnregisteredDevice", err)
	}
	if calls.Load() != 1 {
		t.Errorf("dead token retried %d times, want a single attempt", calls.Load())
	}
}

func TestDispatchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv)
	if err := d.Dispatch(context.Background(), testRegistration()); err != nil {
		t.Fatalf("Dispatch() error = %v after recoverable failures", err)
	}
	if calls.Load() != 3 {
		t.Errorf("attempts = %d, want 3", calls.Load())
	}
}

func TestDispatchClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv)
	err := d.Dispatch(context.Background(), testRegistration())
	if err == nil {
		t.Fatal("expected error for rejected push")
	}
	if errors.Is(err, passkit.ErrUnregisteredDevice) {
		t.Error("client error must not be reported as unregistered device")
	}
	if calls.Load() != 1 {
		t.Errorf("permanent failure retried %d times, want a single attempt", calls.Load())
	}
}

func TestProviderTokenReuse(t *testing.T) {
	var tokens []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv)
	for range 3 {
		if err := d.Dispatch(context.Background(), testRegistration()); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}

	if len(tokens) != 3 {
		t.Fatalf("sent %d pushes, want 3", len(tokens))
	}
	if tokens[0] != tokens[1] || tokens[1] != tokens[2] {
		t.Error("provider token regenerated within its lifetime")
	}
}

func TestLogDispatcherNeverFails(t *testing.T) {
	d := NewLogDispatcher(nil)
	if err := d.Dispatch(context.Background(), testRegistration()); err != nil {
		t.Errorf("Dispatch() error = %v, want nil", err)
	}
}
