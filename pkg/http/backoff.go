package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit breaker open")

// BackoffConfig controls exponential backoff between attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewBackoffConfig creates a backoff configuration with the given retries and initial interval.
func NewBackoffConfig(maxRetries int, initialInterval time.Duration) *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      maxRetries,
		InitialInterval: initialInterval,
		MaxInterval:     10 * initialInterval,
	}
}

// delay returns the wait before the given retry attempt (0 based).
func (b *BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << attempt
	if b.MaxInterval > 0 && d > b.MaxInterval {
		d = b.MaxInterval
	}
	return d
}

// retryable reports whether an attempt that ended with status and err may be repeated.
// Client errors are final, transport failures and server errors are not. Only idempotent
// methods are repeated, so a POST that reached the server is never sent twice.
func retryable(method string, status int, err error) bool {
	if err == nil || !idempotent(method) {
		return false
	}
	if status == 0 || status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// doRequestWithBackoff runs doRequest behind the rate limiter and circuit breaker, retrying
// transport failures and 5xx responses of idempotent requests according to the backoff configuration.
func (hc *Client) doRequestWithBackoff(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if backoff == nil {
		backoff = hc.backoff
	}

	attempt := 0
	for {
		if hc.limiter != nil {
			if err := hc.limiter.Wait(ctx); err != nil {
				return nil, nil, 0, fmt.Errorf("rate limit wait canceled: %w", err)
			}
		}

		resp, err := hc.execute(ctx, method, path, queryParams, headers, body, successResp, errorResp)
		if errors.Is(err, ErrCircuitOpen) {
			return nil, nil, 0, err
		}
		if backoff == nil || attempt >= backoff.MaxRetries || !retryable(method, resp.status, err) || ctx.Err() != nil {
			return resp.success, resp.failure, resp.status, err
		}

		fullURL := hc.buildURL(path)
		hc.logger.LogRequestRetry(method, fullURL, headers, "", resp.status, "", 0, err, attempt+1, backoff.MaxRetries)

		timer := time.NewTimer(backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, nil, resp.status, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

// execute performs one attempt, through the circuit breaker when one is configured.
// Only transport failures and server errors count against the breaker.
func (hc *Client) execute(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any) (response, error) {
	if hc.breaker == nil {
		return hc.doRequest(ctx, method, path, queryParams, headers, body, successResp, errorResp)
	}

	var (
		resp       response
		requestErr error
	)
	_, err := hc.breaker.Execute(func() (interface{}, error) {
		resp, requestErr = hc.doRequest(ctx, method, path, queryParams, headers, body, successResp, errorResp)
		if requestErr != nil && (resp.status == 0 || resp.status >= 500) {
			return nil, requestErr
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return response{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return resp, requestErr
}
