package secrets

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/internal/auth"
	pkgsecrets "github.com/fieldlink/jobber-adapter/pkg/secrets"
)

// Resolver resolves the Jobber OAuth credentials. When a secret name is
// configured it reads the JSON secret from the provider (cached in-memory);
// missing keys fall back to the env-sourced credentials. Without a secret
// name the env credentials are used as-is. Resolution itself never fails hard:
// unusable credentials surface later as a token resolution error, per the
// fail-at-first-use policy.
type Resolver struct {
	logger     *zap.Logger
	secretName string
	provider   pkgsecrets.Provider
	cache      *pkgsecrets.Cache[auth.Credentials]
	fallback   auth.Credentials
}

// NewResolver constructs a credentials resolver. provider may be nil when no
// secret name is configured.
func NewResolver(
	logger *zap.Logger,
	secretName string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[auth.Credentials],
	fallback auth.Credentials,
) *Resolver {
	return &Resolver{
		logger:     logger,
		secretName: secretName,
		provider:   provider,
		cache:      cache,
		fallback:   fallback,
	}
}

// Resolve returns the credentials to run with.
func (r *Resolver) Resolve(ctx context.Context) auth.Credentials {
	if r.secretName == "" || r.provider == nil {
		return r.fallback
	}

	if r.cache != nil {
		if creds, ok := r.cache.Get(r.secretName); ok {
			return creds
		}
	}

	secret, err := r.provider.GetSecret(ctx, r.secretName)
	if err != nil {
		r.logger.Warn("secrets.fetch_failed",
			zap.String("secret", r.secretName),
			zap.Error(err))
		return r.fallback
	}

	creds := auth.Credentials{
		ClientID:          valueOr(secret, "client_id", r.fallback.ClientID),
		ClientSecret:      valueOr(secret, "client_secret", r.fallback.ClientSecret),
		RefreshToken:      valueOr(secret, "refresh_token", r.fallback.RefreshToken),
		StaticAccessToken: valueOr(secret, "access_token", r.fallback.StaticAccessToken),
	}

	if r.cache != nil {
		r.cache.Put(r.secretName, creds)
	}
	return creds
}

func valueOr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}
