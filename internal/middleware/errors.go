package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/apperrors"
)

// ErrorHandler writes the JSON response for the last error a handler pushed
// with c.Error. Handlers that already wrote a body are left alone.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		appErr := apperrors.From(c.Errors.Last().Err)
		status := appErr.HTTPStatus()

		if status >= http.StatusInternalServerError {
			slog.Error("Request failed",
				"method", c.Request.Method, "path", c.Request.URL.Path, "error", appErr.Error())
		} else {
			slog.Debug("Request rejected",
				"method", c.Request.Method, "path", c.Request.URL.Path, "error", appErr.Error())
		}

		if c.Writer.Written() {
			return
		}

		body := gin.H{"error": appErr.Message}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		} else if !production && appErr.Type == apperrors.TypeInternal && appErr.Cause != nil {
			body["details"] = appErr.Cause.Error()
		}
		c.AbortWithStatusJSON(status, body)
	}
}
