package jobber

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticResolver hands out a fixed token, or a scripted error.
type staticResolver struct {
	token string
	err   error
}

func (r *staticResolver) Resolve(_ context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.token, nil
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(zap.NewNop(), server.URL, "2023-11-15", &staticResolver{token: "test-token"}, nil)
	return client, server
}

func TestClient_Execute_HeadersAndBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2023-11-15", r.Header.Get("X-JOBBER-GRAPHQL-VERSION"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req GraphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "clientCreate")
		assert.Contains(t, req.Variables, "input")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"clientCreate":{"client":{"id":"c-1"}}}}`))
	})
	defer server.Close()

	resp, err := client.Execute(context.Background(), "client_create", clientCreateMutation, map[string]any{
		"input": ClientCreateInput{FirstName: "Jane"},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Errors)
	assert.Contains(t, string(resp.Data), "c-1")
}

func TestClient_Execute_DataAndErrorsTogether(t *testing.T) {
	// Per the protocol both fields may be populated; the client returns both.
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"clientCreate":null},"errors":[{"message":"Throttled"}]}`))
	})
	defer server.Close()

	resp, err := client.Execute(context.Background(), "client_create", clientCreateMutation, nil)

	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, []string{"Throttled"}, resp.ErrorMessages())
}

func TestClient_Execute_TransportError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	})
	defer server.Close()

	_, err := client.Execute(context.Background(), "client_create", clientCreateMutation, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusUnauthorized, transportErr.Status)
	assert.Contains(t, transportErr.Body, "invalid token")
}

func TestClient_Execute_ResolverFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be sent when token resolution fails")
	}))
	defer server.Close()

	resolverErr := errors.New("no usable token")
	client := NewClient(zap.NewNop(), server.URL, "2023-11-15", &staticResolver{err: resolverErr}, nil)

	_, err := client.Execute(context.Background(), "client_create", clientCreateMutation, nil)

	assert.ErrorIs(t, err, resolverErr)
}
