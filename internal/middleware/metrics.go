package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keikchoco/alternative-learning-system/internal/service"
)

// Metrics records one HTTP observation per request. The route template is
// used as the path label so /students/:id stays one series regardless of
// the concrete ID.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
