// Package blob provides object storage for bundles and template assets.
// Production deployments use S3; a filesystem store covers local
// development and an in-memory store backs tests.
package blob

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist is returned when a key has no object.
var ErrNotExist = errors.New("blob does not exist")

// Store is a flat keyed object store with whole-object replace semantics.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// Presigner issues time-limited public download URLs. Implemented by the
// S3 store; the mail pipeline requires it.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
