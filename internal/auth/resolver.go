package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/pkg/utils"
)

// TokenExchanger is the slice of Exchanger the resolver needs.
type TokenExchanger interface {
	ExchangeRefreshToken(ctx context.Context) (AccessToken, error)
}

// strategy is one way of producing a usable access token. Usable reports
// whether the strategy has the configuration it needs; Token performs the
// actual resolution.
type strategy interface {
	Name() string
	Usable() bool
	Token(ctx context.Context) (string, error)
}

// refreshStrategy mints a fresh token via the refresh-token grant. A token it
// returns was just issued, so no expiry check is needed.
type refreshStrategy struct {
	creds     Credentials
	exchanger TokenExchanger
}

func (s *refreshStrategy) Name() string { return "refresh" }

func (s *refreshStrategy) Usable() bool { return s.creds.CanRefresh() }

func (s *refreshStrategy) Token(ctx context.Context) (string, error) {
	tok, err := s.exchanger.ExchangeRefreshToken(ctx)
	if err != nil {
		return "", err
	}
	return tok.Token, nil
}

// staticStrategy hands out the operator-supplied fallback token, rejecting it
// when its JWT exp claim is in the past.
type staticStrategy struct {
	token string
}

func (s *staticStrategy) Name() string { return "static" }

func (s *staticStrategy) Usable() bool { return s.token != "" }

func (s *staticStrategy) Token(_ context.Context) (string, error) {
	if exp, ok := ExpiresAt(s.token); ok && IsExpired(s.token) {
		return "", &TokenUnavailableError{
			Reason:    "static access token is expired",
			ExpiredAt: exp,
		}
	}
	return s.token, nil
}

// Resolver picks the access token to use for an outbound CRM call. The
// strategy order encodes the policy of always preferring a freshly refreshed
// token over the static fallback. Tokens are resolved fresh on every call;
// nothing is cached across resolutions.
type Resolver struct {
	logger  *zap.Logger
	refresh strategy
	static  strategy
}

// NewResolver constructs the resolver over the configured credentials. One
// instance is built at process start and shared by the GraphQL client.
func NewResolver(logger *zap.Logger, creds Credentials, exchanger TokenExchanger) *Resolver {
	return &Resolver{
		logger:  logger,
		refresh: &refreshStrategy{creds: creds, exchanger: exchanger},
		static:  &staticStrategy{token: creds.StaticAccessToken},
	}
}

// Resolve returns a usable bearer token or a descriptive, actionable error;
// it never yields an empty token silently.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.refresh.Usable() {
		token, err := r.refresh.Token(ctx)
		if err == nil {
			return token, nil
		}
		r.logger.Warn("jobber.auth.refresh_failed", zap.Error(err))

		if r.static.Usable() {
			if token, serr := r.static.Token(ctx); serr == nil {
				r.logger.Info("jobber.auth.static_fallback",
					zap.String("token", utils.MaskToken(token)))
				return token, nil
			}
		}
		return "", &TokenUnavailableError{
			Reason: fmt.Sprintf("refresh token exchange failed (%s) and no valid static token is configured", err),
			Err:    err,
		}
	}

	if r.static.Usable() {
		return r.static.Token(ctx)
	}

	return "", ErrNoCredentials
}
