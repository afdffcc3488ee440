// Package httpapi is the JSON-over-HTTP client shared by the embedding
// and generation adapters.
//
// Every provider throttles callers and answers 429 or 503 when
// overloaded. Transport owns rate limiting, retries and error decoding
// so the provider packages only map requests onto their wire formats.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docvault/internal/logger"
)

// Default throttling and retry values.
const (
	DefaultRequestsPerSecond = 2.0
	DefaultBurst             = 4
	DefaultMaxAttempts       = 3
	DefaultBackoff           = 2 * time.Second
	DefaultTimeout           = 120 * time.Second

	// maxBackoff caps a provider supplied Retry-After.
	maxBackoff = 30 * time.Second
	// maxErrorBody bounds how much of an error response is echoed.
	maxErrorBody = 512
)

// ErrorDecoder extracts a provider message from an error response body.
// It returns "" when the body carries no recognisable message.
type ErrorDecoder func(body []byte) string

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
}

// Retryable reports whether the status signals a transient overload.
func (e *StatusError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status == http.StatusServiceUnavailable
}

// TransportConfig configures a Transport. Zero fields take the defaults;
// a negative RequestsPerSecond disables throttling.
type TransportConfig struct {
	Provider          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       int
	Backoff           time.Duration
	Headers           map[string]string
	DecodeError       ErrorDecoder
}

// Transport sends rate limited JSON requests with bounded retries.
type Transport struct {
	provider    string
	client      *http.Client
	limiter     *rate.Limiter
	headers     map[string]string
	maxAttempts int
	backoff     time.Duration
	decodeError ErrorDecoder

	mu      sync.Mutex
	retryAt time.Time
}

// NewTransport creates a transport, filling unset fields with defaults.
func NewTransport(cfg TransportConfig) *Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond < 0 {
		limit = rate.Inf
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &Transport{
		provider:    cfg.Provider,
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(limit, cfg.Burst),
		headers:     cfg.Headers,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		decodeError: cfg.DecodeError,
	}
}

// PostJSON posts in as JSON to url and decodes the 2xx response into out.
// Overload responses are retried after the provider's Retry-After delay.
func (t *Transport) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", t.provider, err)
	}
	body, err := t.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", t.provider, err)
	}
	return nil
}

// Get issues a GET to url and discards a 2xx body. It is used for
// connectivity checks, so overloads are not retried.
func (t *Transport) Get(ctx context.Context, url string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	resp, err := t.send(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return t.statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (t *Transport) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if err := t.wait(ctx); err != nil {
			return nil, err
		}

		resp, err := t.send(ctx, method, url, payload)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode/100 == 2 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%s: read response: %w", t.provider, err)
			}
			return body, nil
		}

		statusErr := t.statusError(resp)
		delay := retryAfter(resp.Header.Get("Retry-After"), t.backoff)
		resp.Body.Close()

		var se *StatusError
		if !errors.As(statusErr, &se) || !se.Retryable() {
			return nil, statusErr
		}
		lastErr = statusErr
		if attempt < t.maxAttempts {
			logger.Debug("%s overloaded (status %d), retrying in %s", t.provider, se.Status, delay)
			t.pause(delay)
		}
	}
	return nil, lastErr
}

func (t *Transport) send(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", t.provider, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", t.provider, err)
	}
	return resp, nil
}

func (t *Transport) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := ""
	if t.decodeError != nil {
		msg = t.decodeError(raw)
	}
	if msg == "" {
		msg = string(bytes.TrimSpace(raw))
	}
	return &StatusError{Provider: t.provider, Status: resp.StatusCode, Message: msg}
}

// wait blocks for any pending backoff and then for a limiter token.
func (t *Transport) wait(ctx context.Context) error {
	t.mu.Lock()
	retryAt := t.retryAt
	t.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return t.limiter.Wait(ctx)
}

func (t *Transport) pause(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if at := time.Now().Add(d); at.After(t.retryAt) {
		t.retryAt = at
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string, fallback time.Duration) time.Duration {
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return fallback
	}
	d := time.Duration(secs) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
