package repositories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitedHTTPClient_ForwardsRequests(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(http.DefaultClient, 100, 1)

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	resp.Body.Close()

	if calls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", calls)
	}
}

func TestRateLimitedHTTPClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Zero-rate limiter never issues a token; only the context can unblock.
	client := NewRateLimitedHTTPClient(http.DefaultClient, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if _, err := client.Do(req); err == nil {
		t.Error("Expected error when context is cancelled before a token is available, got nil")
	}
}
