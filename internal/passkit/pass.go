package passkit

import "encoding/json"

// Email lifecycle states for a pass. These are informational only; the
// distribution protocol never branches on them.
const (
	EmailStatusPending   = "pending"
	EmailStatusQueued    = "queued"
	EmailStatusMailed    = "mailed"
	EmailStatusInstalled = "installed"
)

// Pass is one issued wallet pass.
//
// Version is a millisecond unix timestamp that strictly increases on every
// content update. It is the sole freshness authority for conditional
// retrieval: a bundle is stale iff the client's last seen stamp is below it.
type Pass struct {
	Serial      string
	PassTypeID  string
	AuthToken   string
	Email       string
	Content     json.RawMessage
	Version     int64
	EmailStatus string
}

// Registration is one device's subscription to updates for one pass,
// identified by the composite key (DeviceLibraryID, Serial).
//
// AckVersion is the highest pass version this registration is known to have
// been notified about. It only ever moves forward, and only to a version
// that the pass store already holds.
type Registration struct {
	DeviceLibraryID string
	Serial          string
	PassTypeID      string
	PushToken       string
	AckVersion      int64
}

// SerialStamp pairs a serial number with its current version stamp; used by
// the passesUpdatedSince listings.
type SerialStamp struct {
	Serial  string
	Version int64
}
