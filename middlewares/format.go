package middlewares

import (
	"ClinicRecords/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
// The cause is logged only; the client sees message.
func HttpError(c *gin.Context, message string, status int, err error) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= 500 {
		logger.LogError(message, fields...)
	} else {
		logger.LogDebug(message, fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
