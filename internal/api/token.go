package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionExpired inspects the bearer token's exp claim without
// verifying the signature. Verification is the backend's job; the
// client only wants to fail fast instead of burning a request on a
// guaranteed 401. Opaque (non-JWT) tokens and tokens without an exp
// claim pass through untouched.
func sessionExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
