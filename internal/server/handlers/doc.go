// Package handlers implements the operator-facing endpoints: pass
// issuance and updates, mail resends, metrics, template asset management,
// and the health/readiness/version probes.
//
// These endpoints are expected to sit behind an authenticating proxy; the
// service itself only protects the /v1 protocol surface.
package handlers
