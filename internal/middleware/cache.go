package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore keeps API responses, which carry tokens and student data, out of
// the webview's HTTP cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
