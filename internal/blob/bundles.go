package blob

import (
	"context"
	"errors"
	"time"

	"github.com/walletpass/passd/internal/passkit"
)

// BundleArchive adapts a blob Store to the engine's bundle store contract.
// Bundles live at "{serial}.pkpass".
type BundleArchive struct {
	store Store
}

// NewBundleArchive wraps store as the bundle store.
func NewBundleArchive(store Store) *BundleArchive {
	return &BundleArchive{store: store}
}

// BundleKey returns the object key for a serial.
func BundleKey(serial string) string {
	return serial + ".pkpass"
}

func (a *BundleArchive) PutBundle(ctx context.Context, serial string, bundle []byte) error {
	return a.store.Put(ctx, BundleKey(serial), bundle, passkit.BundleContentType)
}

func (a *BundleArchive) GetBundle(ctx context.Context, serial string) ([]byte, error) {
	data, err := a.store.Get(ctx, BundleKey(serial))
	if errors.Is(err, ErrNotExist) {
		return nil, passkit.NewNotFoundError("bundle not found")
	}
	if err != nil {
		return nil, passkit.WrapDependencyError(err, "bundle store unavailable")
	}
	return data, nil
}

// PresignBundle issues a time-limited download URL for a serial's bundle,
// when the underlying store supports it.
func (a *BundleArchive) PresignBundle(ctx context.Context, serial string, ttl time.Duration) (string, error) {
	p, ok := a.store.(Presigner)
	if !ok {
		return "", errors.New("bundle store does not support presigned URLs")
	}
	return p.PresignGet(ctx, BundleKey(serial), ttl)
}
