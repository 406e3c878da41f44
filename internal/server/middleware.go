// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdiddy/museum-search/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	loggerKey       = "logger"
)

// requestID takes X-Request-ID from the request or generates one, echoes it
// on the response, and stores a request-scoped logger in the context.
func requestID(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Set(loggerKey, log.With(logger.String(requestIDKey, id)))
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fromContext(c, log).Info("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}

// recovery turns a handler panic into a 500 ErrorResponse.
func recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				fromContext(c, log).Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, newError("Internal server error", CodeInternal))
			}
		}()
		c.Next()
	}
}

// fromContext returns the request-scoped logger, or fallback when the
// request ID middleware did not run.
func fromContext(c *gin.Context, fallback logger.Logger) logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logger.Logger); ok {
			return l
		}
	}
	return fallback
}
