// Package jwtx reads claims from bearer credentials without verifying them.
//
// The dashboard never holds the backend's signing keys, so nothing here is an
// authorization decision. It only lets the edge gate and the CLI notice a
// credential that has plainly expired.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the token parses but carries no exp claim.
var ErrNoExpiry = errors.New("jwtx: token has no exp claim")

var parser = jwt.NewParser()

// ExpiresAt returns the exp claim of a JWT-shaped credential. Opaque tokens
// return an error.
func ExpiresAt(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether token is a JWT whose exp is at or before now.
// Anything that is not a JWT with an exp claim is never considered expired.
func Expired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	return !now.Before(exp)
}
