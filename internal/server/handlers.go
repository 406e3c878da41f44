// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/museum-search/internal/history"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidTheme   = "INVALID_THEME"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeHistoryError   = "HISTORY_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

const maxHistoryLimit = 200

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

func newError(msg, code string) ErrorResponse {
	return ErrorResponse{Error: msg, Code: code, Timestamp: time.Now().UTC()}
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Theme string `json:"theme"`
}

// Searcher runs a theme search. *search.Engine implements it.
type Searcher interface {
	Search(ctx context.Context, theme string) (types.SearchResult, error)
	Sources() []string
}

// HistoryReader lists past searches. *history.Store implements it.
type HistoryReader interface {
	Recent(ctx context.Context, q history.Query) ([]history.Entry, error)
}

// Handler holds the HTTP handlers.
type Handler struct {
	searcher Searcher
	periods  []types.PeriodMatch
	history  HistoryReader
	version  string
	log      logger.Logger
}

// NewHandler returns a Handler. periods is the catalog served by
// /api/v1/periods; hist may be nil when history is disabled.
func NewHandler(searcher Searcher, periods []types.PeriodMatch, hist HistoryReader, version string, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if periods == nil {
		periods = []types.PeriodMatch{}
	}
	return &Handler{searcher: searcher, periods: periods, history: hist, version: version, log: log}
}

// Search handles POST /search and GET /api/v1/search.
func (h *Handler) Search(c *gin.Context) {
	log := fromContext(c, h.log)

	var req SearchRequest
	if c.Request.Method == http.MethodGet {
		req.Theme = c.Query("theme")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid search request body", logger.Error(err))
		c.JSON(http.StatusBadRequest, newError("Invalid request body: "+err.Error(), CodeInvalidRequest))
		return
	}

	result, err := h.searcher.Search(c.Request.Context(), req.Theme)
	if err != nil {
		if errors.Is(err, search.ErrEmptyTheme) {
			c.JSON(http.StatusBadRequest, newError("theme is required", CodeInvalidTheme))
			return
		}
		log.Error("Search failed", logger.Error(err), logger.String("theme", req.Theme))
		c.JSON(http.StatusInternalServerError, newError("search failed", CodeInternal))
		return
	}
	if result.Results == nil {
		result.Results = []types.ResultEntry{}
	}
	c.JSON(http.StatusOK, result)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Root handles GET / with a short service description.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "museum-search",
		"version": h.version,
		"sources": h.searcher.Sources(),
		"endpoints": []string{
			"POST /search",
			"GET /api/v1/search?theme=",
			"GET /api/v1/periods",
			"GET /api/v1/history",
			"GET /health",
			"GET /metrics",
		},
	})
}

// Periods handles GET /api/v1/periods.
func (h *Handler) Periods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"total": len(h.periods), "periods": h.periods})
}

// History handles GET /api/v1/history?limit=&theme=.
func (h *Handler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, newError("search history is disabled", CodeNotFound))
		return
	}

	q := history.Query{Theme: c.Query("theme")}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, newError("limit must be between 1 and "+strconv.Itoa(maxHistoryLimit), CodeInvalidRequest))
			return
		}
		q.Limit = n
	}

	entries, err := h.history.Recent(c.Request.Context(), q)
	if err != nil {
		fromContext(c, h.log).Error("Reading search history failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, newError("reading search history failed", CodeHistoryError))
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(entries), "searches": entries})
}
