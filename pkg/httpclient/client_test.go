package httpclient

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultRetryStrategy(t *testing.T) {
	tests := []struct {
		status int
		want   RetryStrategy
	}{
		{http.StatusTooManyRequests, SmartRetry},
		{http.StatusServiceUnavailable, SmartRetry},
		{http.StatusInternalServerError, ConservativeRetry},
		{http.StatusBadGateway, ConservativeRetry},
		{http.StatusGatewayTimeout, ConservativeRetry},
		{http.StatusRequestTimeout, ConservativeRetry},
		{http.StatusOK, NoRetry},
		{http.StatusNotFound, NoRetry},
		{http.StatusBadRequest, NoRetry},
	}

	for _, tt := range tests {
		if got := DefaultRetryStrategy(tt.status); got != tt.want {
			t.Errorf("DefaultRetryStrategy(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTransportRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(10*time.Second, WithMaxRetries(5), WithBaseDelay(time.Millisecond))
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestTransportDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := New(10*time.Second, WithBaseDelay(time.Millisecond))
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestTransportReturnsLastResponseWhenExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(10*time.Second, WithMaxRetries(1), WithBaseDelay(time.Millisecond))
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	if got := retryAfter(header); got != 0 {
		t.Errorf("empty header: got %v, want 0", got)
	}

	header.Set("Retry-After", "7")
	if got := retryAfter(header); got != 7*time.Second {
		t.Errorf("seconds form: got %v, want 7s", got)
	}

	header.Set("Retry-After", "not-a-number")
	if got := retryAfter(header); got != 0 {
		t.Errorf("garbage value: got %v, want 0", got)
	}

	header.Set("Retry-After", time.Now().Add(30*time.Second).UTC().Format(http.TimeFormat))
	if got := retryAfter(header); got <= 0 || got > 30*time.Second {
		t.Errorf("date form: got %v, want (0, 30s]", got)
	}
}
