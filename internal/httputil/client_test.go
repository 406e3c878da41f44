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
	"golang.org/x/time/rate"
)

func TestGetJSON_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 2, "objectIDs": [1, 2]}`))
	}))
	defer ts.Close()

	c := New(Config{UserAgent: "test-agent/1"})
	var out struct {
		Total int   `json:"total"`
		IDs   []int `json:"objectIDs"`
	}
	require.NoError(t, c.GetJSON(context.Background(), nil, ts.URL, &out))
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, []int{1, 2}, out.IDs)
}

func TestGetJSON_StatusErrorNoRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	err := New(Config{}).GetJSON(context.Background(), nil, ts.URL+"/object?apikey=s3cret", &struct{}{})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "slow down", se.Body)
	assert.NotContains(t, err.Error(), "s3cret")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSON_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	err := New(Config{}).GetJSON(context.Background(), nil, ts.URL, &struct{}{})
	assert.ErrorContains(t, err, "decoding")
}

func TestGetJSON_ContextTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := New(Config{}).GetJSON(ctx, nil, ts.URL, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetJSON_TransportErrorRedactsKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := ts.URL
	ts.Close()

	err := New(Config{}).GetJSON(context.Background(), nil, addr+"/object?apikey=s3cret", &struct{}{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "s3cret")
}

func TestNewLimiter(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, rate.Inf, c.NewLimiter(0).Limit())
	assert.Equal(t, rate.Limit(80), c.NewLimiter(80).Limit())
	assert.Equal(t, 80, c.NewLimiter(80).Burst())

	limited := New(Config{RequestsPerSecond: 0.5})
	lim := limited.NewLimiter(0)
	assert.Equal(t, rate.Limit(0.5), lim.Limit())
	assert.Equal(t, 1, lim.Burst())
	assert.NotSame(t, lim, limited.NewLimiter(0), "each call gets its own limiter")
}

func TestGetJSON_LimiterCancelled(t *testing.T) {
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, lim.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := New(Config{}).GetJSON(ctx, lim, "http://127.0.0.1:1", &struct{}{})
	assert.ErrorContains(t, err, "rate limiter")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://api.example.org/object?apikey=REDACTED&size=5",
		Redact("https://api.example.org/object?apikey=abc&size=5"))
	assert.Equal(t, "https://api.example.org/search?q=war", Redact("https://api.example.org/search?q=war"))
	assert.Equal(t, "https://api.example.org/", Redact("https://api.example.org/"))
}

func TestWithHTTPClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(Config{}).WithHTTPClient(ts.Client())
	require.NoError(t, c.GetJSON(context.Background(), nil, ts.URL, &struct{}{}))
}
