package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCreds() Credentials {
	return Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-abc",
	}
}

func TestExchanger_ExchangeRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "refresh-abc", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "fresh-token",
			RefreshToken: "rotated-refresh",
			ExpiresIn:    3600,
			TokenType:    "bearer",
		})
	}))
	defer server.Close()

	ex := NewExchanger(zap.NewNop(), server.URL, testCreds(), nil)

	tok, err := ex.ExchangeRefreshToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok.Token)
	// Rotated refresh tokens are surfaced but never persisted by the adapter.
	assert.Equal(t, "rotated-refresh", tok.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)
}

func TestExchanger_ExchangeRefreshToken_NoExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok"})
	}))
	defer server.Close()

	ex := NewExchanger(zap.NewNop(), server.URL, testCreds(), nil)

	tok, err := ex.ExchangeRefreshToken(context.Background())

	require.NoError(t, err)
	assert.True(t, tok.ExpiresAt.IsZero(), "expiry stays absent when expires_in is missing")
}

func TestExchanger_ExchangeRefreshToken_HTTPError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	ex := NewExchanger(zap.NewNop(), server.URL, testCreds(), nil)

	_, err := ex.ExchangeRefreshToken(context.Background())

	var exchangeErr *TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.Status)
	assert.Contains(t, exchangeErr.Body, "invalid_grant")
	assert.Equal(t, 1, calls, "a failed exchange must not be retried")
}

func TestExchanger_ExchangeAuthorizationCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "one-time-code", r.PostForm.Get("code"))
		assert.Equal(t, "https://example.com/oauth/callback", r.PostForm.Get("redirect_uri"))

		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    7200,
			Scope:        "read write",
		})
	}))
	defer server.Close()

	ex := NewExchanger(zap.NewNop(), server.URL, testCreds(), nil)

	tr, err := ex.ExchangeAuthorizationCode(context.Background(), "one-time-code", "https://example.com/oauth/callback")

	require.NoError(t, err)
	assert.Equal(t, "access-1", tr.AccessToken)
	assert.Equal(t, "refresh-1", tr.RefreshToken)
	assert.Equal(t, int64(7200), tr.ExpiresIn)
}

func TestExchanger_TransportFailure(t *testing.T) {
	ex := NewExchanger(zap.NewNop(), "http://127.0.0.1:1", testCreds(), nil)

	_, err := ex.ExchangeRefreshToken(context.Background())

	require.Error(t, err)
	var exchangeErr *TokenExchangeError
	assert.False(t, errors.As(err, &exchangeErr), "network failures are not TokenExchangeError")
}
