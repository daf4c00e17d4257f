package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/investhelper/internal/logger"
)

// RequestLogger is a Gin middleware that writes one structured access log
// line per request through the "http" component logger.
//
// Behavior:
//   - Captures start time, method, path and raw query before the handler runs.
//   - After the request is processed, reads the final status and latency.
//   - Picks the level from the status: error for 5xx, warn for 4xx, info otherwise.
//   - Appends errors attached with c.Error (e.g. by the API error mapping).
//   - Logs request_id (set by RequestID()), method, path, query, status,
//     latency in ms and client IP.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"...","method":"GET","path":"/api/v1/metrics","query":"ticker=AAPL","status":200,"latency_ms":15,"client_ip":"10.0.0.1","message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		lg := logger.With("http")
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = lg.Error()
		case status >= 400:
			ev = lg.Warn()
		default:
			ev = lg.Info()
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			ev = ev.Str("errors", errs.String())
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
