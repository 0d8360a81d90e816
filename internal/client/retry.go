package client

import (
	"fmt"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

// APIKeyHeader is the header the external time-tracking API expects the
// static key in.
const APIKeyHeader = "X-Api-Key"

// CreateAPIClient creates an HTTP client that attaches the API key
// header to every request, wrapped with retry support. maxRetries is 0
// for sync-path calls: a failed call aborts the enclosing operation and
// relies on the next scheduled or manual trigger.
func CreateAPIClient(
	apiKey string,
	timeout time.Duration,
	maxRetries int,
	retryDelay, maxRetryDelay time.Duration,
) (*retry.Client, error) {
	// Create HTTP client with automatic authentication
	client, err := httpclient.NewAuthClient(
		httpclient.AuthModeSimple,
		apiKey,
		httpclient.WithTimeout(timeout),
		httpclient.WithHeaderName(APIKeyHeader),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	// Wrap with retry client
	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(maxRetries),
		retry.WithInitialRetryDelay(retryDelay),
		retry.WithMaxRetryDelay(maxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return retryClient, nil
}
