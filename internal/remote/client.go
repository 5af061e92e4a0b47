// Package remote talks to the diagram and trace service over HTTP. Calls go
// through a circuit breaker and a retrier, and successful responses can be
// cached.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable wraps transport failures, 5xx responses and calls
// rejected by an open circuit.
var ErrUnavailable = errors.New("remote service unavailable")

// ErrNotConfigured is returned by New when no base URL is set.
var ErrNotConfigured = errors.New("remote service URL not configured")

// StatusError is a 4xx response. Message holds the decoded "error" field
// of the JSON body, or the raw body when it is not JSON.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

// Config configures a Client.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxAttempts     int
	BreakerFailures int
	BreakerTimeout  time.Duration
	CacheTTL        time.Duration
}

// Response is a successful reply.
type Response struct {
	Body        []byte
	ContentType string
	Cached      bool
}

// reply is what the breaker sees. 4xx replies are successes from its point
// of view so a bad request does not trip the circuit.
type reply struct {
	status      int
	body        []byte
	contentType string
}

// Client performs GET requests against the service.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker circuitbreaker.CircuitBreaker[*reply]
	retrier retry.Retry[*reply]
	cache   Cache
	ttl     time.Duration
	log     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables response caching.
func WithCache(c Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cl *Client) { cl.log = log }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse service url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("service url %q: scheme must be http or https", cfg.BaseURL)
	}

	c := &Client{
		base: base,
		http: &http.Client{Timeout: cfg.Timeout},
		ttl:  cfg.CacheTTL,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	failures := max(cfg.BreakerFailures, 1)
	openFor := cfg.BreakerTimeout
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	c.breaker = circuitbreaker.New[*reply](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openFor,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= failures
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			c.log.WithFields(logrus.Fields{
				"service": c.base.Host,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")
		},
	})
	c.retrier = retry.New[*reply](retry.Config{
		MaxAttempts:   max(cfg.MaxAttempts, 1),
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
	})
	return c, nil
}

// Get fetches path with query. Results are served from and written to the
// cache when one is configured; cache errors count as misses.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	key := CacheKey(path, query)

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.WithError(err).WithField("key", key).Debug("cache get failed")
		} else if ok {
			return &Response{Body: body, ContentType: contentTypeFor(path), Cached: true}, nil
		}
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()
	target := u.String()

	rep, err := c.breaker.Execute(ctx, func(ctx context.Context) (*reply, error) {
		return c.retrier.Do(ctx, func(ctx context.Context) (*reply, error) {
			return c.do(ctx, target)
		})
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if rep.status != http.StatusOK {
		return nil, &StatusError{Status: rep.status, Message: errorMessage(rep.body)}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, rep.body, c.ttl); err != nil {
			c.log.WithError(err).WithField("key", key).Debug("cache set failed")
		}
	}
	return &Response{Body: rep.body, ContentType: rep.contentType}, nil
}

func (c *Client) do(ctx context.Context, target string) (*reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return &reply{
		status:      resp.StatusCode,
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}

const maxBody = 4 << 20

// errorMessage extracts {"error": "..."} or falls back to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func contentTypeFor(path string) string {
	if strings.HasSuffix(path, "/render") {
		return "image/svg+xml"
	}
	return "application/json"
}
