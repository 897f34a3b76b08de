package config

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 200 * time.Millisecond

// PerformanceLogger logs the latency of every dashboard request and flags
// slow ones and server errors. Health checks are not logged.
func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		log.Printf("[PERF] %s %s | Status: %d | Time: %v", c.Request.Method, c.Request.URL.Path, status, latency)

		if latency > slowRequestThreshold {
			log.Printf("[SLOW] %s %s took %v", c.Request.Method, c.Request.URL.Path, latency)
		}
		if status >= 500 && len(c.Errors) > 0 {
			log.Printf("[ERROR] %s %s: %s", c.Request.Method, c.Request.URL.Path, c.Errors.String())
		}
	}
}
