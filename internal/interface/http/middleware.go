package httpapi

import (
	"strconv"
	"time"

	"carpool-service/pkg/logger"
	"carpool-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Observability logs one line per request and feeds the HTTP metrics.
func Observability(log logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)

		if m != nil {
			m.HTTPRequests.WithLabelValues(c.Request.Method, route, status).Inc()
			m.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(elapsed.Seconds())
		}

		log.Info("http_request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
