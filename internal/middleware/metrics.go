package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ticket-report-engine/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records one HTTP observation per report API request, labelled by
// route template. Requests that match no route share one label to keep path
// cardinality bounded. Routes in skip, typically health checks and the scrape
// endpoint, are not recorded so that polling does not drown report traffic.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, ok := skipped[c.FullPath()]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
