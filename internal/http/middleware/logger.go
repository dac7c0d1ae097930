package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Health checks arrive every few seconds and would drown the request log.
const healthPath = "/api/health"

// Logger prints one line per request with the request id. Gateway errors
// stand out: anything 502+ means an upstream collaborator failed, which is
// what on-call needs to see first.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		reqID := GetRequestID(c)
		status := c.Writer.Status()

		tag := "[HTTP]"
		if status >= 502 {
			tag = "[HTTP][UPSTREAM]"
		}
		log.Printf("%s request_id=%s method=%s path=%s status=%d bytes=%d latency_ms=%.3f ip=%s",
			tag,
			reqID,
			c.Request.Method,
			c.Request.URL.Path,
			status,
			c.Writer.Size(),
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
