package auth

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoCredentials indicates that neither refresh credentials nor a static
// access token were configured.
var ErrNoCredentials = errors.New(
	"no Jobber credentials configured: set JOBBER_CLIENT_ID/JOBBER_CLIENT_SECRET/JOBBER_REFRESH_TOKEN or JOBBER_ACCESS_TOKEN")

// TokenExchangeError is returned when the token endpoint rejects or fails an
// OAuth grant exchange. It carries the raw HTTP status and body; callers must
// not retry automatically.
type TokenExchangeError struct {
	Status int
	Body   string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("jobber token endpoint returned %d: %s", e.Status, e.Body)
}

// TokenUnavailableError is returned when every resolution strategy has been
// exhausted. Reason names the terminal failure; ExpiredAt is set when a static
// token was present but expired.
type TokenUnavailableError struct {
	Reason    string
	ExpiredAt time.Time
	Err       error
}

func (e *TokenUnavailableError) Error() string {
	msg := "jobber access token unavailable: " + e.Reason
	if !e.ExpiredAt.IsZero() {
		msg += fmt.Sprintf(" (expired at %s)", e.ExpiredAt.UTC().Format(time.RFC3339))
	}
	return msg + "; re-authorize the Jobber app to obtain a new refresh token, or configure a valid JOBBER_ACCESS_TOKEN"
}

func (e *TokenUnavailableError) Unwrap() error { return e.Err }
