// Package passkit implements the pass distribution protocol engine: the
// pass and registration entities, the deterministic bundle build pipeline,
// the shared authorization rule, and the update coordinator that keeps the
// version stamp, the signed bundle and device notifications consistent.
//
// External collaborators (durable stores, blob storage, the signing
// gateway, push dispatch) are consumed through interfaces defined here and
// implemented in internal/database, internal/blob, internal/signing and
// internal/dispatch.
package passkit
