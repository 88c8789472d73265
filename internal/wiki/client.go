// Package wiki is the HTTP transport for the OSRS Wiki real-time prices API.
//
// The client only moves bytes: it issues GET requests with the tool's user agent and
// returns the raw body. Decoding and caching happen in the engine.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default endpoints of the real-time prices API.
const (
	DefaultMappingURL = "https://prices.runescape.wiki/api/v1/osrs/mapping"
	DefaultLatestURL  = "https://prices.runescape.wiki/api/v1/osrs/latest"
)

// Client defaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultRequestsPerSecond keeps retries and refreshes polite towards the API.
	DefaultRequestsPerSecond = 2
	DefaultBurst             = 2

	// maxBodyBytes caps a response body; the mapping document is a few MB.
	maxBodyBytes = 64 << 20
)

// ErrResponseTooLarge is returned when a response body exceeds the size cap.
var ErrResponseTooLarge = errors.New("response too large")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client fetches documents from the prices API.
type Client struct {
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
	limiter    *rate.Limiter

	maxBodyBytes int64

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client identifying itself with userAgent.
// The API asks every consumer to send a descriptive user agent.
func NewClient(userAgent string, opts ...ClientOption) (*Client, error) {
	if userAgent == "" {
		return nil, errors.New("user agent cannot be empty")
	}

	c := &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:       zerolog.Nop(),
		limiter:      rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurst),
		maxBodyBytes: maxBodyBytes,
		maxRetries:   DefaultMaxRetries,
		retryBackoff: DefaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(maxRetries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBackoff = backoff
	}
}

// WithRateLimit caps outgoing requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// UserAgent returns the user agent sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Fetch returns the body of a GET request to url, retrying server errors and rate
// limiting with exponential backoff.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			wait := backoff/2 + time.Duration(rand.Int64N(int64(backoff)+1))
			c.logger.Debug().
				Int("attempt", attempt).
				Dur("backoff", wait).
				Str("url", url).
				Err(lastErr).
				Msg("retrying request")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}

			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || !httpErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	// One byte past the cap tells a truncated body apart from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("GET %s: %w: over %d bytes", url, ErrResponseTooLarge, c.maxBodyBytes)
	}

	return body, nil
}
