package jobber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/internal/httpclient"
	"github.com/fieldlink/jobber-adapter/internal/metrics"
	"github.com/fieldlink/jobber-adapter/internal/rate"
)

// TokenResolver supplies the bearer token for an outbound call.
type TokenResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Client wraps low-level GraphQL communication with Jobber's API. It resolves
// a bearer token per request, pins the API version header, and returns the
// raw {data, errors} envelope. It knows nothing about specific mutations.
type Client struct {
	logger     *zap.Logger
	apiURL     string
	apiVersion string
	resolver   TokenResolver
	exec       *httpclient.Executor
}

// NewClient constructs a new Jobber GraphQL client instance.
func NewClient(logger *zap.Logger, apiURL, apiVersion string, resolver TokenResolver, rateMgr *rate.Manager) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	exec := httpclient.New(logger, rateMgr, httpClient, 0, "jobber", func(status int, body []byte) error {
		logger.Warn("jobber.non_2xx",
			zap.Int("status", status),
			zap.String("body", string(body)))
		return &TransportError{Status: status, Body: string(body)}
	})
	return &Client{
		logger:     logger,
		apiURL:     apiURL,
		apiVersion: apiVersion,
		resolver:   resolver,
		exec:       exec,
	}
}

// Execute sends a GraphQL query/mutation and returns the response envelope.
// operation tags logs and metrics only; it has no protocol meaning.
func (c *Client) Execute(ctx context.Context, operation, query string, variables map[string]any) (*GraphQLResponse, error) {
	token, err := c.resolver.Resolve(ctx)
	if err != nil {
		metrics.IncJobberRequest(operation, "auth_error")
		return nil, err
	}

	data, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("X-JOBBER-GRAPHQL-VERSION", c.apiVersion)

	var envelope GraphQLResponse
	start := time.Now()
	err = c.exec.DoJSON(ctx, req, "jobber_api", &envelope)
	metrics.ObserveDuration(metrics.JobberRequestDuration, start, operation)
	if err != nil {
		metrics.IncJobberRequest(operation, "error")
		return nil, err
	}

	metrics.IncJobberRequest(operation, "ok")
	return &envelope, nil
}
