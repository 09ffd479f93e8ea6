package webservice

import (
	"github.com/walletpass/passd/internal/passkit"
)

// Service holds the dependencies of the protocol handlers.
type Service struct {
	passes  passkit.PassStore
	regs    passkit.RegistrationStore
	bundles passkit.BundleStore
}

// NewService creates the protocol handler set.
func NewService(passes passkit.PassStore, regs passkit.RegistrationStore, bundles passkit.BundleStore) *Service {
	return &Service{
		passes:  passes,
		regs:    regs,
		bundles: bundles,
	}
}

// serialListResponse is the body of the passesUpdatedSince listings.
type serialListResponse struct {
	SerialNumbers []string `json:"serialNumbers"`
	LastUpdated   int64    `json:"lastUpdated"`
}

// registrationRequest is the body of a device registration.
type registrationRequest struct {
	PushToken string `json:"pushToken"`
}
