package blob

// templates.go provides template asset access: individual asset CRUD under
// a key prefix for operator tooling, and a read-through cache of the
// packaged template archive that the bundle builder consumes.

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/walletpass/passd/internal/passkit"
)

// TemplateLibrary manages individual template assets under a prefix and
// caches the parsed template set between builds. The cache has an explicit
// owner and lifetime (the server process); writes through the library
// invalidate it.
type TemplateLibrary struct {
	store  Store
	prefix string
	zipKey string

	mu     sync.RWMutex
	cached passkit.TemplateSet
}

// NewTemplateLibrary creates a template library over store. Assets live
// under prefix; zipKey names the packaged archive the builder reads.
func NewTemplateLibrary(store Store, prefix, zipKey string) *TemplateLibrary {
	return &TemplateLibrary{store: store, prefix: prefix, zipKey: zipKey}
}

// TemplateSet returns the parsed template archive, loading it on first use
// and serving the cached copy afterwards. Safe for concurrent readers.
func (l *TemplateLibrary) TemplateSet(ctx context.Context) (passkit.TemplateSet, error) {
	l.mu.RLock()
	cached := l.cached
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	data, err := l.store.Get(ctx, l.zipKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load template archive %s: %w", l.zipKey, err)
	}
	set, err := passkit.ParseTemplateArchive(data)
	if err != nil {
		return nil, err
	}
	l.cached = set
	return set, nil
}

// Invalidate drops the cached template set; the next build reloads it.
func (l *TemplateLibrary) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}

// ListAssets returns the asset names under the template prefix.
func (l *TemplateLibrary) ListAssets(ctx context.Context) ([]string, error) {
	keys, err := l.store.List(ctx, l.prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, l.prefix))
	}
	return names, nil
}

// GetAsset returns one template asset by name.
func (l *TemplateLibrary) GetAsset(ctx context.Context, name string) ([]byte, error) {
	return l.store.Get(ctx, l.prefix+name)
}

// PutAsset stores one template asset and invalidates the cache.
func (l *TemplateLibrary) PutAsset(ctx context.Context, name string, data []byte, contentType string) error {
	if err := l.store.Put(ctx, l.prefix+name, data, contentType); err != nil {
		return err
	}
	l.Invalidate()
	return nil
}

// DeleteAsset removes one template asset and invalidates the cache.
func (l *TemplateLibrary) DeleteAsset(ctx context.Context, name string) error {
	if err := l.store.Delete(ctx, l.prefix+name); err != nil {
		return err
	}
	l.Invalidate()
	return nil
}
