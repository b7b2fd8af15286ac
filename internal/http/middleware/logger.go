package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/internal/http/response"
)

// Logger wraps the rest of the chain and records one start event and one
// outcome event per request. Failures recorded on the context (including
// recovered panics) are logged as error events and left in place for the
// stages above; the logger never clears them. Log emission is synchronous
// stdout printing and does not wait on any sink.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := response.RequestID(c)
		method := c.Request.Method
		path := c.Request.URL.Path

		log.Printf("[HTTP] event=start request_id=%s method=%s path=%s ip=%s user_agent=%q",
			rid, method, path, c.ClientIP(), c.Request.UserAgent())

		c.Next()

		latency := float64(time.Since(start).Microseconds()) / 1000.0

		if len(c.Errors) > 0 {
			log.Printf("[HTTP] event=error request_id=%s method=%s path=%s latency_ms=%.3f error=%q",
				rid, method, path, latency, c.Errors.String())
			return
		}

		log.Printf("[HTTP] event=end request_id=%s method=%s path=%s status=%d size=%d latency_ms=%.3f",
			rid, method, path, c.Writer.Status(), c.Writer.Size(), latency)
	}
}
