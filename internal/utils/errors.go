package utils

import (
	"aiagents-backend/internal/apperr"
	"aiagents-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError writes err as an envelope using its apperr kind. Only the
// client-safe message leaves the process; the cause is logged.
func RespondError(c *gin.Context, err error) {
	RespondErrorWithData(c, err, nil)
}

// RespondErrorWithData is RespondError with a fallback payload, used where
// clients expect a well-formed body even on failure.
func RespondErrorWithData(c *gin.Context, err error, data interface{}) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	fields := []zap.Field{
		zap.String("kind", kind.String()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}
	if id, ok := c.Get("RequestID"); ok {
		fields = append(fields, zap.Any("request_id", id))
	}
	if status >= 500 {
		logger.Log.Error("request failed", fields...)
	} else {
		logger.Log.Debug("request rejected", fields...)
	}

	c.JSON(status, NewResponse(status, apperr.MessageOf(err), data))
}
