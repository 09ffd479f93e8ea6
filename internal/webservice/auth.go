package webservice

// auth.go parses the protocol's Authorization header. The authorization
// decision itself is passkit.AuthorizePass; this file only extracts the
// presented credential.

import (
	"net/http"
	"strings"

	"github.com/walletpass/passd/internal/passkit"
)

// ParseAuthorization extracts the credential from an
// "Authorization: ApplePass <token>" header. Only this exact shape is
// accepted; anything else (missing header, wrong scheme, empty token)
// reports false and is treated as unauthorized, never as a malformed
// request.
func ParseAuthorization(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != passkit.AuthScheme {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
