package middleware

import (
	"net/http"

	"studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Ownership violations get the plain-text refusal; everything else is JSON.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode := errors.HTTPStatusFromError(err)

		if statusCode >= http.StatusInternalServerError {
			log.Error("Request failed",
				"error", err,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(ContextRequestID),
			)
		}

		if c.Writer.Written() {
			return
		}

		if statusCode == http.StatusForbidden {
			c.String(statusCode, errors.NotAllowedMessage)
			return
		}

		c.JSON(statusCode, gin.H{
			"error": errors.PublicMessage(err),
		})
	}
}
