package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// transient is implemented by provider errors that say whether another
// attempt could succeed.
type transient interface {
	Transient() bool
}

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error   { return e.Err }
func (e *ErrRateLimit) Transient() bool { return true }

// ErrProviderUnavailable covers 5xx responses and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return "llm: provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error   { return e.Err }
func (e *ErrProviderUnavailable) Transient() bool { return true }

// ErrRejected is a 4xx other than 429: bad key, bad model, bad request.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("llm: request rejected with status %d: %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error   { return e.Err }
func (e *ErrRejected) Transient() bool { return false }

// ErrInvalidResponse is output that is not JSON or does not match the
// requested schema. Models are not deterministic, so it is retried.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return "llm: invalid response: " + e.Err.Error()
}

func (e *ErrInvalidResponse) Unwrap() error   { return e.Err }
func (e *ErrInvalidResponse) Transient() bool { return true }

// ErrMaxTokensExceeded is output cut off at the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string   { return "llm: response truncated at max tokens" }
func (e *ErrMaxTokensExceeded) Transient() bool { return false }

// isTransient reports whether err is worth another attempt. Cancellation
// always wins over whatever the provider said.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var t transient
	return errors.As(err, &t) && t.Transient()
}

// classifyStatus turns an SDK error and its HTTP status into one of the
// typed errors above. Status 0 means the SDK reported none.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status >= 400 && status < 500:
		return &ErrRejected{Status: status, Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}
