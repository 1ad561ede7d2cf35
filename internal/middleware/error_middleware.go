package middleware

import (
	"msgboard/internal/services"
	"msgboard/internal/transport/httpdto"
	"msgboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error when the handler did not
// write a response itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := services.HTTPStatus(err)
		if l != nil && status >= 500 {
			l.ErrorCtx(c.Request.Context(), "request error", zap.Error(err))
		}
		if c.Writer.Written() {
			return
		}
		message := err.Error()
		if status >= 500 {
			message = "internal error"
		}
		c.JSON(status, httpdto.NewErrorResponse(message, httpdto.ErrorCode(status)))
	}
}
