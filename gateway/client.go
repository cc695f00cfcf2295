// Package gateway is the typed HTTP client for the external booking/payment
// backend. The backend owns room inventory, pricing, user records and the money
// ledger; this client only reads them and requests mutations.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type contextKey int

const tokenKey contextKey = iota

// WithToken returns a context carrying the caller's bearer token. Requests made
// with that context are authenticated as the caller.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token attached by WithToken, if any.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}

// Client talks to the backend's REST API. All calls are JSON over the configured
// base URL; the underlying http.Client enforces a fixed timeout, and a timeout
// is surfaced like any other transient failure.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a Client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// ErrBackend carries the backend's own message for an unsuccessful call so the
// caller can display it verbatim.
type ErrBackend struct {
	Status  int
	Message string
}

func (e *ErrBackend) Error() string {
	return e.Message
}

const genericFailure = "request to booking service failed"

// doJSON issues a request with an optional JSON body and decodes the response
// envelope. Non-2xx responses yield an *ErrBackend with the backend's message,
// falling back to a generic one.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// send executes a prepared request, attaching the caller's bearer token when the
// context carries one.
func (c *Client) send(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}

	if resp.StatusCode >= 300 {
		message := env.Message
		if message == "" {
			message = genericFailure
		}
		c.logger.Warn("backend returned an error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, &ErrBackend{Status: resp.StatusCode, Message: message}
	}

	if len(env.Data) > 0 {
		return env.Data, nil
	}
	return raw, nil
}
