package specialist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// DefaultTimeout bounds an ask call when the identity does not carry its
// own timeout.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements the Client interface over HTTP/JSON. It is
// stateless and safe for concurrent use.
type HTTPClient struct {
	http           *http.Client
	defaultTimeout time.Duration
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithDefaultTimeout sets the per-call deadline used for identities that
// carry no timeout of their own.
func WithDefaultTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.defaultTimeout = d
	}
}

// NewHTTPClient creates a specialist HTTP client. The underlying
// *http.Client carries no global timeout; every call is bounded by a
// per-call deadline instead.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http:           &http.Client{},
		defaultTimeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask sends the question to the specialist's ask endpoint and classifies
// the result. One attempt, no retries.
func (c *HTTPClient) Ask(ctx context.Context, sp Identity, req AskRequest) Outcome {
	timeout := sp.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return Failed(CauseUnexpected, fmt.Errorf("specialist: marshal request: %w", err), time.Since(start))
	}

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, joinPath(sp.Endpoint, "/ask"), bytes.NewReader(body))
	if err != nil {
		return Failed(CauseUnexpected, fmt.Errorf("specialist: create request: %w", err), time.Since(start))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return classify(ctx, sp, err, latency)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	latency = time.Since(start)
	if err != nil {
		return classify(ctx, sp, err, latency)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failed(CauseProtocol, &ProtocolError{
			Agent:  sp.Name,
			Status: resp.StatusCode,
			Detail: strings.TrimSpace(string(respBody)),
		}, latency)
	}

	var answer AskResponse
	if err := json.Unmarshal(respBody, &answer); err != nil {
		return Failed(CauseProtocol, &ProtocolError{
			Agent:  sp.Name,
			Status: resp.StatusCode,
			Detail: "malformed answer payload: " + err.Error(),
		}, latency)
	}
	if strings.TrimSpace(answer.Answer) == "" {
		return Failed(CauseProtocol, &ProtocolError{
			Agent:  sp.Name,
			Status: resp.StatusCode,
			Detail: "empty answer",
		}, latency)
	}

	return Answered(answer.Answer, latency)
}

// Health probes the specialist's health endpoint. Unlike Ask, probe
// failures surface as plain errors; the caller decides what an
// unreachable specialist means.
func (c *HTTPClient) Health(ctx context.Context, sp Identity) (HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, joinPath(sp.Endpoint, "/health"), nil)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("specialist: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("specialist: health %s: %w", sp.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return HealthResponse{}, fmt.Errorf("specialist: health %s: HTTP %d: %s", sp.Name, resp.StatusCode, string(body))
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return HealthResponse{}, fmt.Errorf("specialist: decode health: %w", err)
	}
	return health, nil
}

// classify maps a transport error to an Outcome. The parent context is
// checked first so an external cancellation is never mistaken for the
// per-call deadline; the coordinator discards outcomes produced under a
// canceled parent anyway.
func classify(parent context.Context, sp Identity, err error, latency time.Duration) Outcome {
	wrapped := fmt.Errorf("specialist: ask %s: %w", sp.Name, err)

	if parent.Err() != nil {
		return Failed(CauseUnexpected, wrapped, latency)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimedOut(latency)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Failed(CauseTimeout, wrapped, latency)
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return Failed(CauseConnection, wrapped, latency)
	}

	return Failed(CauseUnexpected, wrapped, latency)
}

// joinPath appends a path to a base endpoint URL.
func joinPath(endpoint, path string) string {
	return strings.TrimRight(endpoint, "/") + path
}

// ProtocolError represents a malformed or non-success response from a
// specialist.
type ProtocolError struct {
	Agent  string
	Status int
	Detail string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("specialist: %s: HTTP %d: %s", e.Agent, e.Status, e.Detail)
}
