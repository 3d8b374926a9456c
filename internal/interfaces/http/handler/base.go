package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"github.com/lojinha/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error body with the status derived from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// BindError reports a failed ShouldBind call
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleDomainError converts service errors to HTTP responses. Storage and
// integration faults are logged; their causes never reach the client.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	code, message := h.classify(err)
	if dto.GetHTTPStatus(code) >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("request failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	h.Error(c, code, message)
}

func (h *BaseHandler) classify(err error) (code, message string) {
	var domainErr *shared.DomainError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return dto.ErrCodeTimeout, "The request took too long. Please try again"
	case errors.As(err, &domainErr):
		code = dto.NormalizeErrorCode(domainErr.Code)
		if code == dto.ErrCodeRetrievalFailure {
			return code, domainErr.Message + ". Please try again"
		}
		return code, domainErr.Message
	default:
		return dto.ErrCodeInternal, "An unexpected error occurred"
	}
}

// userID returns the authenticated caller. uuid.Nil lets the service report
// the missing identity as a precondition violation.
func userID(c *gin.Context) uuid.UUID {
	return middleware.GetUserID(c)
}

// pathUUID parses a UUID path parameter, replying 400 when it is malformed
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, dto.ErrCodeValidation, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
