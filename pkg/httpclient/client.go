// Package httpclient is the resilient outbound HTTP client used for
// third-party APIs (weather). Database calls are never retried; this policy
// applies only to outbound HTTP.
//
// Each request retries transient failures with exponential backoff, and a
// circuit breaker stops hammering an upstream that keeps failing.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is refusing requests.
var ErrCircuitOpen = errors.New("httpclient: circuit open")

// Breaker is a failure-threshold circuit breaker. After maxFailures
// consecutive failures it opens for cooldown; the first request after the
// cooldown probes the upstream (half-open).
type Breaker struct {
	mu          sync.Mutex
	maxFailures int
	cooldown    time.Duration
	failures    int
	openedAt    time.Time
}

// NewBreaker builds a breaker that opens after maxFailures consecutive
// failures and stays open for cooldown.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{maxFailures: maxFailures, cooldown: cooldown}
}

// Allow reports whether a request may proceed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.maxFailures {
		return true
	}
	// Open: allow a single probe once the cooldown has elapsed.
	if time.Since(b.openedAt) >= b.cooldown {
		b.openedAt = time.Now()
		return true
	}
	return false
}

// Record notes the outcome of a request.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures == b.maxFailures {
		b.openedAt = time.Now()
	}
}

// Client wraps http.Client with retry and breaker policy.
type Client struct {
	http     *http.Client
	breaker  *Breaker
	retries  int
	baseWait time.Duration
}

// New builds a Client with sensible defaults: 5s timeout, 3 retries with
// exponential backoff, breaker opening after 5 consecutive failures for 30s.
func New() *Client {
	return &Client{
		http:     &http.Client{Timeout: 5 * time.Second},
		breaker:  NewBreaker(5, 30*time.Second),
		retries:  3,
		baseWait: 500 * time.Millisecond,
	}
}

// WithTimeout overrides the per-attempt timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// WithRetries overrides the retry count.
func (c *Client) WithRetries(n int) *Client {
	c.retries = n
	return c
}

// GetJSON fetches url and unmarshals the response body into dest.
// Retries on network errors and 5xx responses; 4xx responses fail fast.
func (c *Client) GetJSON(ctx context.Context, url string, dest interface{}) error {
	if !c.breaker.Allow() {
		return ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(float64(c.baseWait) * math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				c.breaker.Record(false)
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retryable, err := c.attempt(ctx, url)
		if err == nil {
			c.breaker.Record(true)
			if err := json.Unmarshal(body, dest); err != nil {
				return fmt.Errorf("httpclient: decode %s: %w", url, err)
			}
			return nil
		}

		lastErr = err
		if !retryable {
			break
		}
	}

	c.breaker.Record(false)
	return lastErr
}

func (c *Client) attempt(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("httpclient: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("httpclient: %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("httpclient: read %s: %w", url, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("httpclient: %s: upstream status %d", url, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("httpclient: %s: status %d", url, resp.StatusCode)
	}

	return body, false, nil
}
