package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// unverifiedParser decodes claims without signature or claim validation. The
// adapter never verifies Jobber's tokens; it only peeks at exp.
var unverifiedParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// IsExpired reports whether the bearer token carries a JWT exp claim in the
// past. Tokens that are not decodable JWTs, or that carry no exp, are treated
// as not expired: Jobber may hand out opaque tokens and rejecting those
// outright would break the static-token fallback.
func IsExpired(token string) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return exp.Before(time.Now())
}

// ExpiresAt returns the exp claim of a JWT bearer token, when present and
// decodable.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := unverifiedParser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
