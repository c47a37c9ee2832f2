package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/retvol/internal/domain/dto"
	"github.com/guttosm/retvol/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON ErrorResponse
// once the handler chain has finished, unless a response was already written.
//
// Usage:
//
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	last := c.Errors.Last()
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().Str("request_id", toString(rid)).Err(last.Err).Msg("request failed")

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError stops the chain and writes status with a standardized body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
