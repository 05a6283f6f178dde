package httpclient

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"
)

type RetryStrategy int

const (
	NoRetry RetryStrategy = iota
	ConservativeRetry
	SmartRetry
)

type RetryStrategyFunc func(int) RetryStrategy

// Transport is an http.RoundTripper that retries transient failures.
// Rate limited responses honor the Retry-After header; server errors
// get a short fixed backoff.
type Transport struct {
	base         http.RoundTripper
	maxRetries   int
	baseDelay    time.Duration
	strategyFunc RetryStrategyFunc
}

type Option func(*Transport)

func WithBase(base http.RoundTripper) Option {
	return func(t *Transport) {
		t.base = base
	}
}

func WithMaxRetries(max int) Option {
	return func(t *Transport) {
		t.maxRetries = max
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(t *Transport) {
		t.baseDelay = delay
	}
}

func WithRetryStrategy(strategyFunc RetryStrategyFunc) Option {
	return func(t *Transport) {
		t.strategyFunc = strategyFunc
	}
}

func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		base:         http.DefaultTransport,
		maxRetries:   3,
		baseDelay:    time.Second,
		strategyFunc: DefaultRetryStrategy,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// New returns an http.Client with a retrying transport and the given
// overall timeout. Zero timeout means no limit.
func New(timeout time.Duration, opts ...Option) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(opts...),
	}
}

func DefaultRetryStrategy(statusCode int) RetryStrategy {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable:
		return SmartRetry
	case http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusGatewayTimeout:
		return ConservativeRetry
	default:
		return NoRetry
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; attempt <= t.maxRetries; attempt++ {

		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to recreate request body for retry: %w", err)
			}
			req.Body = body
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		strategy := t.strategyFunc(resp.StatusCode)
		if strategy == NoRetry {
			return resp, nil
		}

		if attempt >= t.maxRetries {
			return resp, nil
		}

		delay := t.calculateDelay(strategy, attempt, resp)
		if delay <= 0 {
			return resp, nil
		}

		resp.Body.Close()
		slog.Debug("Retrying request",
			"status", resp.StatusCode,
			"delay", delay,
			"attempt", attempt+1,
			"max_attempts", t.maxRetries)

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}
	}

	return nil, &RetryableError{
		Message: fmt.Sprintf("max retries exceeded after %d attempts", t.maxRetries),
	}
}

func (t *Transport) calculateDelay(strategy RetryStrategy, attempt int, resp *http.Response) time.Duration {
	switch strategy {
	case SmartRetry:
		if after := retryAfter(resp.Header); after > 0 {
			return after
		}

		exponentialDelay := time.Duration(math.Pow(2, float64(attempt))) * t.baseDelay
		jitter := time.Duration(float64(exponentialDelay) * 0.1)
		return exponentialDelay + jitter

	case ConservativeRetry:
		if attempt >= 2 {
			return 0
		}
		return time.Duration(attempt+1) * t.baseDelay

	default:
		return 0
	}
}

// retryAfter parses the Retry-After header, either as delay seconds
// or as an HTTP date.
func retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if delay := time.Until(at); delay > 0 {
			return delay
		}
	}
	return 0
}
