package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAPIVersion is the Admin API version requests are pinned to.
const DefaultAPIVersion = "2025-07"

// AdminClient talks to one shop's GraphQL Admin API. It is safe for
// concurrent use; every query goes through the retry loop.
type AdminClient struct {
	endpoint string
	token    string
	http     *http.Client
	retry    RetryOptions
}

// ClientOption customizes an AdminClient.
type ClientOption func(*AdminClient)

// WithHTTPClient swaps the underlying HTTP client (tests, custom transports).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *AdminClient) { c.http = h }
}

// WithRetryOptions overrides the retry tuning.
func WithRetryOptions(opts RetryOptions) ClientOption {
	return func(c *AdminClient) { c.retry = opts }
}

// WithEndpoint overrides the full GraphQL endpoint URL (tests).
func WithEndpoint(url string) ClientOption {
	return func(c *AdminClient) { c.endpoint = url }
}

// NewAdminClient builds a client for shopDomain authorized by accessToken.
func NewAdminClient(shopDomain, accessToken, apiVersion string, opts ...ClientOption) *AdminClient {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	c := &AdminClient{
		endpoint: fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, apiVersion),
		token:    accessToken,
		http:     &http.Client{Timeout: 15 * time.Second},
		retry:    DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// query executes one GraphQL request with retries and decodes data into out.
// Throttled responses (HTTP 429 or a THROTTLED error code) and 5xx are
// retried; userErrors inside data are the caller's to interpret.
func (c *AdminClient) query(ctx context.Context, query string, variables map[string]any, out any) error {
	return WithRetry(ctx, c.retry, func(ctx context.Context) error {
		err := c.do(ctx, query, variables, out)
		if err != nil && IsRetryable(err) {
			log.Ctx(ctx).Warn().Err(err).Msg("admin API call failed; will retry")
		}
		return err
	})
}

func (c *AdminClient) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return newStatusError(resp.StatusCode)
	}

	var env graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Message: "malformed admin API response"}
	}

	for _, gqlErr := range env.Errors {
		if gqlErr.Extensions.Code == "THROTTLED" {
			return newThrottledError()
		}
	}
	if len(env.Errors) > 0 {
		return &APIError{Message: "admin API error: " + env.Errors[0].Message}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Message: "malformed admin API data"}
		}
	}
	return nil
}
