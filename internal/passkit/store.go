package passkit

// store.go declares the access contracts for the durable stores and the
// external collaborators consumed by the engine. Production implementations
// live in internal/database, internal/blob, internal/signing and
// internal/dispatch; tests substitute in-memory fakes.

import (
	"context"
	"encoding/json"
)

// PassStore is the durable record per pass.
type PassStore interface {
	// GetPass returns the pass for serial, or a not-found error.
	GetPass(ctx context.Context, serial string) (Pass, error)

	// CreatePass persists a newly issued pass.
	CreatePass(ctx context.Context, p Pass) error

	// UpdatePassContent conditionally persists new content and a new
	// version stamp. The write only applies when the stored version still
	// equals expectedVersion; it returns false when another writer won the
	// race, in which case the caller re-reads and retries.
	UpdatePassContent(ctx context.Context, serial string, content json.RawMessage, newVersion, expectedVersion int64) (bool, error)

	// ListUpdatedSince returns serial/version pairs for passes of the given
	// type whose version is strictly greater than since.
	ListUpdatedSince(ctx context.Context, passTypeID string, since int64) ([]SerialStamp, error)

	// ListPasses returns every pass record.
	ListPasses(ctx context.Context) ([]Pass, error)

	// ListByEmailStatus returns the passes currently in the given email
	// lifecycle state.
	ListByEmailStatus(ctx context.Context, status string) ([]Pass, error)

	// SetEmailStatus updates the informational email lifecycle tag. It
	// never touches the version stamp.
	SetEmailStatus(ctx context.Context, serial, status string) error

	// CountByEmailStatus returns the number of passes per lifecycle state.
	CountByEmailStatus(ctx context.Context) (map[string]int64, error)
}

// RegistrationStore is the durable record per (device, pass) pair.
type RegistrationStore interface {
	// Upsert creates or replaces a registration (last-write-wins on the
	// push token). Returns true when the registration did not exist before.
	Upsert(ctx context.Context, reg Registration) (created bool, err error)

	// Delete removes a registration. Deleting an absent registration is not
	// an error.
	Delete(ctx context.Context, deviceLibraryID, serial string) error

	// ListForSerial returns every registration subscribed to the pass.
	ListForSerial(ctx context.Context, serial string) ([]Registration, error)

	// ListForDeviceSince returns the device's registrations under the given
	// pass type whose ack version is strictly greater than since.
	ListForDeviceSince(ctx context.Context, deviceLibraryID, passTypeID string, since int64) ([]Registration, error)

	// SetAckVersion records that the registration was notified about
	// version. The stamp never moves backwards.
	SetAckVersion(ctx context.Context, deviceLibraryID, serial string, version int64) error
}

// BundleStore holds the signed bundle per serial with whole-object replace
// semantics.
type BundleStore interface {
	PutBundle(ctx context.Context, serial string, bundle []byte) error
	GetBundle(ctx context.Context, serial string) ([]byte, error)
}

// TemplateSource supplies the static template asset set used to build
// bundles.
type TemplateSource interface {
	TemplateSet(ctx context.Context) (TemplateSet, error)
}

// Signer is the signing gateway: manifest bytes in, detached signature out.
// The engine treats the signature as an opaque asset.
type Signer interface {
	SignManifest(ctx context.Context, manifest []byte) ([]byte, error)
}

// Dispatcher delivers a push hint to one registration. Delivery is
// fire-and-forget, at-least-once; an error wrapping ErrUnregisteredDevice
// marks the push address as permanently dead.
type Dispatcher interface {
	Dispatch(ctx context.Context, reg Registration) error
}
