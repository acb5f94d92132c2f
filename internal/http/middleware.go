package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/handoff/internal/httputil"
)

// CustomLoggerMiddleware logs each request with its route pattern, never the raw URL, so
// handoff tokens in query strings stay out of logs.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		logger.InfoContext(c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.String("host", c.Request.Host),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// RequestContextMiddleware copies the request id into the request context so loggers
// wrapped with httputil.RequestIDHandler tag every record, including audit events.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := requestid.Get(c); id != "" {
			c.Request = c.Request.WithContext(httputil.WithRequestID(c.Request.Context(), id))
		}
		c.Next()
	}
}
