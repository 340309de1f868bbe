package auth

import "time"

// Credentials is the process-wide Jobber OAuth configuration, read once at
// startup and immutable afterwards. Any usable combination is acceptable:
// full refresh credentials, a static access token, or both. Nothing usable
// is only an error on first use, not at load time.
type Credentials struct {
	ClientID          string
	ClientSecret      string
	RefreshToken      string
	StaticAccessToken string
}

// CanRefresh reports whether the refresh-token grant can be attempted.
func (c Credentials) CanRefresh() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// AccessToken is a bearer token minted by the token endpoint, plus the
// rotated refresh token (if any) and a derived expiry. A zero ExpiresAt
// means the endpoint did not report one.
type AccessToken struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenResponse mirrors the token endpoint's JSON response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
}
