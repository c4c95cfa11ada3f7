// Package client provides the HTTP transport for FencingTimeLive pages
// and data feeds: bounded retry with exponential backoff, typed errors,
// and per-endpoint request metrics.
package client

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream requests.
var (
	ftlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_requests_total",
		Help: "Total upstream requests by endpoint kind and status",
	}, []string{"endpoint", "status"})

	ftlRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ftl_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint kind",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	ftlRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_retries_total",
		Help: "Total retry attempts by endpoint kind",
	}, []string{"endpoint"})

	ftlRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_retry_exhausted_total",
		Help: "Total requests that exhausted all retry attempts by endpoint kind",
	}, []string{"endpoint"})
)

// Config holds the transport configuration.
type Config struct {
	// BaseURL is the upstream host, without a trailing slash.
	BaseURL string

	// UserAgent is sent on every request.
	UserAgent string

	// Timeout bounds a single attempt, not the whole retry loop.
	Timeout time.Duration

	// MaxAttempts is the total number of tries (including the first).
	MaxAttempts int

	// BackoffBase is the delay before the first retry; it doubles per
	// attempt up to MaxBackoff. A ±20% jitter is applied.
	BackoffBase time.Duration
	MaxBackoff  time.Duration
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		Timeout:     10 * time.Second,
		MaxAttempts: 3,
		BackoffBase: 500 * time.Millisecond,
		MaxBackoff:  8 * time.Second,
	}
}

// Client fetches raw payloads from the upstream. It retries network and
// 5xx failures; 4xx responses are returned immediately as *StatusError.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a transport client. Zero-valued config fields fall back to
// DefaultConfig values.
func New(cfg Config) (*Client, error) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1 (got %d)", cfg.MaxAttempts)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log.With().Str("component", "ftl-client").Logger(),
	}, nil
}

// Fetch performs a GET against the given upstream path and returns the
// response body. The path may carry a query string.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := c.config.BaseURL + path
	endpoint := endpointKind(path)

	start := time.Now()
	defer func() {
		ftlRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	backoff := c.config.BackoffBase

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		body, retryable, err := c.fetchOnce(ctx, url, endpoint)
		if err == nil {
			if attempt > 1 {
				c.logger.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if attempt >= c.config.MaxAttempts {
			break
		}

		ftlRetriesTotal.WithLabelValues(endpoint).Inc()

		// ±20% jitter so concurrent pool fetches do not retry in lockstep.
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))

		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Err(err).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			return nil, &TransportError{URL: url, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(jitter):
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}

	ftlRetryExhaustedTotal.WithLabelValues(endpoint).Inc()
	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("max_attempts", c.config.MaxAttempts).
		Err(lastErr).
		Msg("Retry attempts exhausted")

	return nil, &TransportError{URL: url, Attempts: c.config.MaxAttempts, Err: lastErr}
}

// fetchOnce executes a single attempt. retryable reports whether the
// failure class (network, 5xx, truncated body) is worth another try.
func (c *Client) fetchOnce(ctx context.Context, url, endpoint string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		ftlRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, true, err
	}
	defer resp.Body.Close()

	ftlRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
	switch {
	case statusErr.ServerError():
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Upstream server error")
		return nil, true, statusErr
	case statusErr.ClientError():
		return nil, false, statusErr
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response body: %w", err)
	}
	// The upstream occasionally answers 200 with an empty body under load.
	if len(body) == 0 {
		return nil, true, fmt.Errorf("empty response body from %s", url)
	}
	return body, false, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the configured upstream host.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// endpointKind reduces a request path to its first two segments so metric
// labels stay low-cardinality regardless of event and round ids.
func endpointKind(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
