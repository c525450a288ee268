// Package readonly serves a dataset without accepting changes to it.
//
// With READ_ONLY=true every request that could modify data (uploads,
// document deletes, project and label creation) is refused, while browsing
// and downloads keep working.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const message = "This instance is read-only"

// ContextKeyReadOnly holds the read-only flag for handlers that render pages.
const ContextKeyReadOnly = "read_only"

// Middleware blocks write operations when enabled.
type Middleware struct {
	enabled bool
}

func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that rejects non-safe methods.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)

		if !m.enabled || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsReadOnly reports whether the request was served in read-only mode.
func IsReadOnly(c *gin.Context) bool {
	return c.GetBool(ContextKeyReadOnly)
}

func (m *Middleware) respondBlocked(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     message,
			"read_only": true,
		})
		return
	}

	c.String(http.StatusForbidden, message)
	c.Abort()
}
