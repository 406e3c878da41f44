// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-search/internal/history"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/metrics"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/pkg/types"
)

type mockSearcher struct {
	searchFunc func(theme string) (types.SearchResult, error)
	calls      int
}

func (m *mockSearcher) Search(_ context.Context, theme string) (types.SearchResult, error) {
	m.calls++
	if strings.TrimSpace(theme) == "" {
		return types.SearchResult{}, search.ErrEmptyTheme
	}
	if m.searchFunc != nil {
		return m.searchFunc(theme)
	}
	return types.SearchResult{Theme: theme, Results: []types.ResultEntry{}}, nil
}

func (m *mockSearcher) Sources() []string { return []string{"met", "aic"} }

type mockHistory struct {
	entries []history.Entry
	err     error
	last    history.Query
}

func (m *mockHistory) Recent(_ context.Context, q history.Query) ([]history.Entry, error) {
	m.last = q
	return m.entries, m.err
}

func setupTestRouter(t *testing.T, h *Handler, m *metrics.Metrics) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(recovery(logger.NewNop()))
	router.Use(requestID(logger.NewNop()))
	Routes(router, h, m)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSearchPost(t *testing.T) {
	s := &mockSearcher{searchFunc: func(theme string) (types.SearchResult, error) {
		return types.SearchResult{
			Theme:  theme,
			Period: "Cold War",
			Total:  1,
			Results: []types.ResultEntry{{
				Title: "Propaganda Poster", Score: 0.9, Source: "met",
				Reasons: []string{types.ReasonKeywordInTitle},
			}},
		}, nil
	}}
	router := setupTestRouter(t, NewHandler(s, nil, nil, "test", nil), nil)

	w := do(router, http.MethodPost, "/search", `{"theme": "cold war posters"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var got types.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "cold war posters", got.Theme)
	assert.Equal(t, "Cold War", got.Period)
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "Propaganda Poster", got.Results[0].Title)
}

func TestSearchGet(t *testing.T) {
	s := &mockSearcher{}
	router := setupTestRouter(t, NewHandler(s, nil, nil, "test", nil), nil)

	w := do(router, http.MethodGet, "/api/v1/search?theme=sea+storms", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme": "sea storms", "total": 0, "results": []}`, w.Body.String())
}

func TestSearchNilResultsEncodeAsEmptyArray(t *testing.T) {
	s := &mockSearcher{searchFunc: func(theme string) (types.SearchResult, error) {
		return types.SearchResult{Theme: theme}, nil
	}}
	router := setupTestRouter(t, NewHandler(s, nil, nil, "test", nil), nil)

	w := do(router, http.MethodPost, "/search", `{"theme": "x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":[]`)
}

func TestSearchInvalidTheme(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "empty theme", method: http.MethodPost, path: "/search", body: `{"theme": ""}`},
		{name: "whitespace theme", method: http.MethodPost, path: "/search", body: `{"theme": "   "}`},
		{name: "missing theme", method: http.MethodPost, path: "/search", body: `{}`},
		{name: "get without theme", method: http.MethodGet, path: "/api/v1/search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, nil, "test", nil), nil)
			w := do(router, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, CodeInvalidTheme, resp.Code)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestSearchMalformedBody(t *testing.T) {
	s := &mockSearcher{}
	router := setupTestRouter(t, NewHandler(s, nil, nil, "test", nil), nil)

	w := do(router, http.MethodPost, "/search", `{"theme": `)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, w).Code)
	assert.Zero(t, s.calls)
}

func TestSearchUnexpectedError(t *testing.T) {
	s := &mockSearcher{searchFunc: func(string) (types.SearchResult, error) {
		return types.SearchResult{}, errors.New("boom")
	}}
	router := setupTestRouter(t, NewHandler(s, nil, nil, "test", nil), nil)

	w := do(router, http.MethodPost, "/search", `{"theme": "sea"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeInternal, decodeError(t, w).Code)
}

func TestRequestIDPropagates(t *testing.T) {
	router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, nil, "test", nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestHealthAndRoot(t *testing.T) {
	router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, nil, "1.2.3", nil), nil)

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())

	w = do(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var root map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "museum-search", root["service"])
	assert.Equal(t, "1.2.3", root["version"])
	assert.Equal(t, []any{"met", "aic"}, root["sources"])
}

func TestPeriods(t *testing.T) {
	periods := []types.PeriodMatch{{CanonicalName: "Cold War", StartYear: 1947, EndYear: 1991, Aliases: []string{"cold war"}}}
	router := setupTestRouter(t, NewHandler(&mockSearcher{}, periods, nil, "test", nil), nil)

	w := do(router, http.MethodGet, "/api/v1/periods", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total   int                 `json:"total"`
		Periods []types.PeriodMatch `json:"periods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Cold War", resp.Periods[0].CanonicalName)
}

func TestHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hist := &mockHistory{entries: []history.Entry{{ID: 1, Theme: "sea", Total: 3, At: at}}}
	router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, hist, "test", nil), nil)

	w := do(router, http.MethodGet, "/api/v1/history?limit=5&theme=se", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, history.Query{Theme: "se", Limit: 5}, hist.last)

	var resp struct {
		Total    int             `json:"total"`
		Searches []history.Entry `json:"searches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "sea", resp.Searches[0].Theme)
}

func TestHistoryErrors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, nil, "test", nil), nil)
		w := do(router, http.MethodGet, "/api/v1/history", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("bad limit", func(t *testing.T) {
		router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, &mockHistory{}, "test", nil), nil)
		for _, limit := range []string{"0", "abc", "1000"} {
			w := do(router, http.MethodGet, "/api/v1/history?limit="+limit, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, limit)
		}
	})
	t.Run("store failure", func(t *testing.T) {
		router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, &mockHistory{err: errors.New("locked")}, "test", nil), nil)
		w := do(router, http.MethodGet, "/api/v1/history", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, CodeHistoryError, decodeError(t, w).Code)
	})
	t.Run("empty", func(t *testing.T) {
		router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, &mockHistory{}, "test", nil), nil)
		w := do(router, http.MethodGet, "/api/v1/history", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"total": 0, "searches": []}`, w.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.RecordSearch(true, 10, 3, time.Second)
	router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, nil, "test", nil), m)

	w := do(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "museum_search_searches_total")
}

func TestNoRoute(t *testing.T) {
	router := setupTestRouter(t, NewHandler(&mockSearcher{}, nil, nil, "test", nil), nil)
	w := do(router, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decodeError(t, w).Code)
}

func TestRecoveryReturnsErrorResponse(t *testing.T) {
	s := &mockSearcher{searchFunc: func(string) (types.SearchResult, error) { panic("kaboom") }}
	router := setupTestRouter(t, NewHandler(s, nil, nil, "test", nil), nil)

	w := do(router, http.MethodPost, "/search", `{"theme": "sea"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeInternal, decodeError(t, w).Code)
}

func TestServerRunAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	srv := New(types.ServerConfig{Host: "127.0.0.1", Port: port, ShutdownTimeout: time.Second},
		NewHandler(&mockSearcher{}, nil, nil, "test", nil), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
