package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginrus logs one line per request under the given module prefix.
func ginrus(module string) gin.HandlerFunc {
	entry := logrus.WithField("prefix", module)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		e := entry.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency":    time.Since(start),
			"user_agent": c.Request.UserAgent(),
			"requester":  c.GetString("requester"),
		})

		switch {
		case len(c.Errors) > 0:
			e.Error(c.Errors.String())
		case c.Writer.Status() >= 500:
			e.Error()
		default:
			e.Info()
		}
	}
}
