package middleware

import "github.com/gin-gonic/gin"

// contextKey namespaces values this package stores in the Gin context.
type contextKey string

const (
	loggerKey    = contextKey("logger")
	requestIDKey = contextKey("requestID")
)

// GetRequestIDFromContext returns the ID assigned to the request by StructuredLoggingMiddleware.
func GetRequestIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(string(requestIDKey))
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
