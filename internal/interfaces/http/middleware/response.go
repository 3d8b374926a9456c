package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
)

// abortWithError stops the chain with a standard error body. The status
// comes from the code.
func abortWithError(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// RecoveryResponse writes the body sent when a handler panics
func RecoveryResponse(c *gin.Context) {
	abortWithError(c, dto.ErrCodeInternal, "An unexpected error occurred")
}
