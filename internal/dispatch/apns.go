package dispatch

// apns.go delivers push hints over the APNs HTTP/2 provider API using
// token-based (ES256 provider JWT) authentication.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/walletpass/passd/internal/passkit"
)

// providerTokenLifetime is how long a signed provider token is reused.
// APNs rejects tokens older than an hour; refresh well before that.
const providerTokenLifetime = 50 * time.Minute

// maxDeliveryRetries bounds the retry loop for one hint. Hints are
// best-effort; a device that misses one will catch up on its next poll.
const maxDeliveryRetries = 3

// pushPayload is the empty background payload that triggers a re-poll.
const pushPayload = `{"aps":{}}`

// APNSDispatcher sends push hints via the APNs provider API.
type APNSDispatcher struct {
	host   string
	keyID  string
	teamID string
	key    jwk.Key
	client *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// APNSConfig wires an APNSDispatcher.
type APNSConfig struct {
	// Host is the provider API base URL, e.g.
	// https://api.push.apple.com or the sandbox equivalent.
	Host string
	// KeyID and TeamID identify the provider signing key.
	KeyID  string
	TeamID string
	// Key is the PEM-encoded ES256 provider key (.p8 contents).
	Key []byte
	// Client optionally overrides the HTTP client (tests).
	Client *http.Client
}

// NewAPNSDispatcher parses the provider key and creates a dispatcher.
func NewAPNSDispatcher(cfg APNSConfig) (*APNSDispatcher, error) {
	key, err := jwk.ParseKey(cfg.Key, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse APNs provider key: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &APNSDispatcher{
		host:   strings.TrimSuffix(cfg.Host, "/"),
		keyID:  cfg.KeyID,
		teamID: cfg.TeamID,
		key:    key,
		client: client,
	}, nil
}

// Dispatch sends one background push to the registration's push token.
// Transient failures are retried with exponential backoff; a permanently
// dead token is reported as passkit.ErrUnregisteredDevice.
func (d *APNSDispatcher) Dispatch(ctx context.Context, reg passkit.Registration) error {
	operation := func() error {
		return d.send(ctx, reg)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxDeliveryRetries),
		ctx,
	)
	return backoff.Retry(operation, b)
}

func (d *APNSDispatcher) send(ctx context.Context, reg passkit.Registration) error {
	token, err := d.providerToken()
	if err != nil {
		return backoff.Permanent(err)
	}

	url := fmt.Sprintf("%s/3/device/%s", d.host, reg.PushToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(pushPayload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("authorization", "bearer "+token)
	req.Header.Set("apns-topic", reg.PassTypeID)
	req.Header.Set("apns-push-type", "background")
	req.Header.Set("apns-priority", "5")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusGone:
		// The device token is no longer valid for this topic.
		return backoff.Permanent(fmt.Errorf("%w: apns 410", passkit.ErrUnregisteredDevice))
	case resp.StatusCode >= 500:
		return fmt.Errorf("apns returned %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("apns rejected push: %d %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
}

// providerToken returns a signed provider JWT, reusing the cached one
// until its refresh window expires.
func (d *APNSDispatcher) providerToken() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if d.token != "" && now.Before(d.tokenExpiry) {
		return d.token, nil
	}

	tok, err := jwt.NewBuilder().
		Issuer(d.teamID).
		IssuedAt(now).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build provider token: %w", err)
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.KeyIDKey, d.keyID); err != nil {
		return "", fmt.Errorf("failed to set provider key id: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.ES256(), d.key, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		return "", fmt.Errorf("failed to sign provider token: %w", err)
	}

	d.token = string(signed)
	d.tokenExpiry = now.Add(providerTokenLifetime)
	return d.token, nil
}
