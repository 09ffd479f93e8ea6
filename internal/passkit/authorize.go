package passkit

// authorize.go implements the single authorization rule shared by pass
// retrieval, device registration and unregistration.

import (
	"context"
	"crypto/subtle"
	"errors"
)

// AuthScheme is the token that prefixes the credential in the
// Authorization header: "Authorization: ApplePass <token>".
const AuthScheme = "ApplePass"

// AuthorizePass looks up serial and checks that the stored pass type and
// auth token match the presented values.
//
// Every failure mode (unknown serial, wrong pass type, wrong token, store
// miss) collapses into the same unauthorized error so the response cannot
// distinguish "no such pass" from "wrong credential". The token and type
// comparisons are constant-structure: both always run, with no early exit.
//
// Store failures other than not-found are surfaced as dependency errors so
// an unavailable pass store is never reported as unauthorized.
func AuthorizePass(ctx context.Context, store PassStore, serial, passTypeID, token string) (Pass, error) {
	pass, err := store.GetPass(ctx, serial)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) && pe.Code() == ErrCodeNotFound {
			return Pass{}, NewUnauthorizedError("unknown serial")
		}
		return Pass{}, WrapDependencyError(err, "pass store lookup failed")
	}

	typeOK := subtle.ConstantTimeCompare([]byte(pass.PassTypeID), []byte(passTypeID))
	tokenOK := subtle.ConstantTimeCompare([]byte(pass.AuthToken), []byte(token))
	if typeOK&tokenOK != 1 {
		return Pass{}, NewUnauthorizedError("credential mismatch")
	}

	return pass, nil
}
