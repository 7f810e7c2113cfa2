package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/astro-web3/bws-gateway/internal/domain/apikey"
	"github.com/astro-web3/bws-gateway/pkg/logger"
	"github.com/astro-web3/bws-gateway/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// problem is the RFC 7807 body of a 401 response.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
}

//nolint:gochecknoglobals // immutable response body
var unauthorized = problem{
	Type:   "https://httpstatuses.com/401",
	Title:  "Unauthorized",
	Status: http.StatusUnauthorized,
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= 500 {
			logger.ErrorContext(c.Request.Context(), "request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		} else {
			logger.InfoContext(c.Request.Context(), "request completed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		}
	}
}

// apiKeyMiddleware rejects requests without the shared API key before any
// handler runs.
func apiKeyMiddleware(auth *apikey.Authenticator, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authenticate(c.Request.Header); err != nil {
			reason := apikey.Reason(err)
			m.AuthFailure(reason)
			logger.WarnContext(c.Request.Context(), "request not authenticated",
				slog.String("path", c.Request.URL.Path),
				slog.String("header", auth.HeaderName()),
				slog.String("reason", reason),
			)
			c.Header("Content-Type", "application/problem+json")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized)
			return
		}
		c.Next()
	}
}
