package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/internal/metrics"
	"github.com/fieldlink/jobber-adapter/internal/rate"
)

// Exchanger performs OAuth2 grant exchanges against the Jobber token
// endpoint. Each call is a single attempt; retry policy belongs to callers.
type Exchanger struct {
	logger   *zap.Logger
	tokenURL string
	creds    Credentials
	rateMgr  *rate.Manager
	client   *http.Client
}

// NewExchanger creates an Exchanger for the given token endpoint and
// credentials. rateMgr may be nil (tests).
func NewExchanger(logger *zap.Logger, tokenURL string, creds Credentials, rateMgr *rate.Manager) *Exchanger {
	return &Exchanger{
		logger:   logger,
		tokenURL: tokenURL,
		creds:    creds,
		rateMgr:  rateMgr,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ExchangeRefreshToken trades the configured refresh token for a fresh access
// token. The response may rotate the refresh token; the new value is surfaced
// on the returned AccessToken but persisting it is an operator action, not an
// adapter behavior.
func (e *Exchanger) ExchangeRefreshToken(ctx context.Context) (AccessToken, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {e.creds.ClientID},
		"client_secret": {e.creds.ClientSecret},
		"refresh_token": {e.creds.RefreshToken},
	}

	tr, err := e.post(ctx, form)
	if err != nil {
		metrics.IncTokenExchange("refresh_token", "error")
		return AccessToken{}, err
	}
	metrics.IncTokenExchange("refresh_token", "ok")

	tok := AccessToken{
		Token:        tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}
	if tr.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	if tr.RefreshToken != "" && tr.RefreshToken != e.creds.RefreshToken {
		e.logger.Warn("jobber.auth.refresh_token_rotated",
			zap.String("hint", "update JOBBER_REFRESH_TOKEN (or the secret) with the new value before the old one is invalidated"))
	}

	e.logger.Debug("jobber.auth.refresh_success",
		zap.Int64("expires_in_sec", tr.ExpiresIn))

	return tok, nil
}

// ExchangeAuthorizationCode trades a one-time authorization code (from the
// OAuth redirect) for a token pair.
func (e *Exchanger) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {e.creds.ClientID},
		"client_secret": {e.creds.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}

	tr, err := e.post(ctx, form)
	if err != nil {
		metrics.IncTokenExchange("authorization_code", "error")
		return TokenResponse{}, err
	}
	metrics.IncTokenExchange("authorization_code", "ok")

	e.logger.Info("jobber.auth.code_exchanged",
		zap.String("scope", tr.Scope),
		zap.Int64("expires_in_sec", tr.ExpiresIn))

	return tr, nil
}

// post sends a form-encoded grant request and decodes the token response.
func (e *Exchanger) post(ctx context.Context, form url.Values) (TokenResponse, error) {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, "jobber_token"); err != nil {
			return TokenResponse{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return TokenResponse{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		e.logger.Warn("jobber.auth.exchange_failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return TokenResponse{}, &TokenExchangeError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return TokenResponse{}, err
	}
	return tr, nil
}
