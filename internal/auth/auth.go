// Package auth inspects the stored credential token. The server is the
// verifier; the client only decodes the payload to learn whether a login is
// required before it bothers opening a channel, and to recover the cached
// username.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no credential token")
var ErrMalformedToken = errors.New("malformed credential token")
var ErrTokenExpired = errors.New("credential token expired")

// Claims is the subset of the credential payload the client cares about.
type Claims struct {
	Username  string
	ExpiresAt time.Time // zero when the token carries no expiry
}

type tokenClaims struct {
	Username string `json:"userName"`
	jwt.RegisteredClaims
}

// Inspect decodes the token payload without verifying the signature.
func Inspect(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrNoToken
	}
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	out := Claims{Username: tc.Username}
	if tc.ExpiresAt != nil {
		out.ExpiresAt = tc.ExpiresAt.Time
	}
	return out, nil
}

// Check reports whether the token is present, decodable, and unexpired at
// now. A token without an exp claim passes.
func Check(token string, now time.Time) error {
	claims, err := Inspect(token)
	if err != nil {
		return err
	}
	if !claims.ExpiresAt.IsZero() && !now.Before(claims.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}
