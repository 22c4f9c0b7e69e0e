package httpclient

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/imroc/req/v3"
)

const (
	// DefaultAttempts is the total request budget: the initial call plus retries.
	DefaultAttempts = 6
	// defaultBaseBackoff is the backoff before the first retry.
	defaultBaseBackoff = 500 * time.Millisecond
	// defaultMaxBackoff caps the exponential backoff growth.
	defaultMaxBackoff = 30 * time.Second
	// retryAfterCap is the maximum sleep duration honoured from a Retry-After header.
	retryAfterCap = 60 * time.Second
)

// transientStatuses are the HTTP statuses worth retrying. Any other 5xx is
// also treated as transient; everything else fails fast.
var transientStatuses = map[int]bool{
	http.StatusRequestTimeout:      true, // 408
	http.StatusTooEarly:            true, // 425
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
}

// RetryOptions tunes the retry policy attached by AttachRetry.
type RetryOptions struct {
	// Attempts is the total number of tries (initial call + retries).
	Attempts int
	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the computed backoff delay.
	MaxBackoff time.Duration
}

// DefaultRetryOptions returns the production retry policy.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		Attempts:    DefaultAttempts,
		BaseBackoff: defaultBaseBackoff,
		MaxBackoff:  defaultMaxBackoff,
	}
}

// AttachRetry hooks the retry policy onto the client's request pipeline.
//
// Retried: transport-level errors (except context cancellation/deadline) and
// HTTP statuses in the transient set or any 5xx. Non-transient non-2xx
// statuses are never retried; callers treat them as fatal immediately.
// The retry interval grows exponentially from opts.BaseBackoff, capped at
// opts.MaxBackoff, with multiplicative jitter in [0.85, 1.15]. When a 429
// response carries a numeric Retry-After header, the delay is raised to at
// least that value (capped at retryAfterCap).
func AttachRetry(client *req.Client, opts RetryOptions) {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	client.SetCommonRetryCount(opts.Attempts - 1)

	client.AddCommonRetryCondition(func(resp *req.Response, _ error) bool {
		if resp == nil || resp.Response == nil {
			return false
		}
		return transientStatuses[resp.StatusCode] || resp.StatusCode >= 500
	})
	client.AddCommonRetryCondition(func(_ *req.Response, err error) bool {
		if err == nil {
			return false
		}
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	})

	client.SetCommonRetryInterval(retryInterval(opts))
}

// retryInterval returns the delay function attached via SetCommonRetryInterval.
// A 429 response with a numeric Retry-After header raises the delay to at
// least the hinted value; a hint below the computed backoff never lowers it.
func retryInterval(opts RetryOptions) func(resp *req.Response, attempt int) time.Duration {
	return func(resp *req.Response, attempt int) time.Duration {
		delay := backoffDelay(opts, attempt)
		if resp != nil && resp.Response != nil && resp.StatusCode == http.StatusTooManyRequests {
			if hinted := parseRetryAfter(resp.Header.Get("Retry-After")); hinted > delay {
				delay = hinted
			}
		}
		return delay
	}
}

// backoffDelay computes min(MaxBackoff, BaseBackoff·2^attempt) with
// multiplicative jitter in [0.85, 1.15].
func backoffDelay(opts RetryOptions, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30 // avoid shift overflow; MaxBackoff caps long before this
	}
	delay := min(opts.MaxBackoff, opts.BaseBackoff<<uint(attempt))
	factor := 0.85 + rand.Float64()*0.30 //nolint:gosec // non-cryptographic random is fine for jitter
	return time.Duration(float64(delay) * factor)
}

// parseRetryAfter parses a numeric Retry-After header value (seconds) and
// returns a capped duration, or zero when absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, retryAfterCap)
}
