// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

// limitedServer answers 429 for the first `limited` calls, then status.
func limitedServer(t *testing.T, limited int32, status int, calls *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if n := atomic.AddInt32(calls, 1); limited < 0 || n <= limited {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		limited    int32 // -1 means always 429
		status     int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", 0, http.StatusOK, 5, http.StatusOK, 1},
		{"retries then 200", 2, http.StatusOK, 5, http.StatusOK, 3},
		{"exhausts retries", -1, http.StatusOK, 3, http.StatusTooManyRequests, 4},
		{"default max retries", -1, http.StatusOK, 0, http.StatusTooManyRequests, 6},
		{"non-429 passes through", 0, http.StatusInternalServerError, 5, http.StatusInternalServerError, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := limitedServer(t, tt.limited, tt.status, &calls)

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestDoWithRetryContextCancelled(t *testing.T) {
	var calls int32
	ts := limitedServer(t, -1, http.StatusOK, &calls)

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, 4*RetryBaseDelay, backoff(resp, 2))

	resp.Header.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, backoff(resp, 2))

	resp.Header.Set("Retry-After", "86400")
	assert.Equal(t, maxRetryAfter, backoff(resp, 0))

	resp.Header.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Equal(t, RetryBaseDelay, backoff(resp, 0))
}

func TestGet(t *testing.T) {
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("See 42 U.S.C. § 1983."))
	}))
	defer ts.Close()

	body, contentType, err := Get(context.Background(), ts.Client(), ts.URL+"/brief.txt", "toa-engine/test", 1)
	require.NoError(t, err)
	assert.Equal(t, "See 42 U.S.C. § 1983.", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
	assert.Equal(t, "toa-engine/test", gotAgent)

	_, _, err = Get(context.Background(), ts.Client(), ts.URL+"/missing", "", 1)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, err.Error(), "404")
}
