package middleware

import (
	"errors"
	"net/http"

	"devconnector-api/internal/delivery/http/response"
	"devconnector-api/pkg/apperror"
	"devconnector-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		switch appErr.Kind {
		case apperror.KindValidation:
			response.Violations(c, appErr.Code, appErr.Details)
		case apperror.KindInternal:
			// Never expose internal error details to clients.
			logger.Log.Error("Request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", response.RequestID(c),
				"error", err,
			)
			response.Error(c, http.StatusInternalServerError, appErr.Message)
		default:
			response.Error(c, appErr.Code, appErr.Message)
		}
	}
}
