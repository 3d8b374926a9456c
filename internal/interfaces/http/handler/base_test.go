package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHandleDomainError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", shared.NewValidationError("Quantity must be positive"), http.StatusBadRequest, dto.ErrCodeValidation, "Quantity must be positive"},
		{"not found", shared.NewNotFoundError("Cart item not found"), http.StatusNotFound, dto.ErrCodeNotFound, "Cart item not found"},
		{"conflict", shared.NewConflictError("Slug already in use"), http.StatusConflict, dto.ErrCodeAlreadyExists, "Slug already in use"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock, "Insufficient stock available"},
		{"precondition", shared.ErrMissingIdentity, http.StatusInternalServerError, dto.ErrCodePreconditionViolation, "Authenticated user identity is required"},
		{"retrieval failure hides cause", shared.NewRetrievalFailure("Failed to load cart", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, dto.ErrCodeRetrievalFailure, "Failed to load cart. Please try again"},
		{"wrapped domain error", fmt.Errorf("add item: %w", shared.NewNotFoundError("Product not found")), http.StatusNotFound, dto.ErrCodeNotFound, "Product not found"},
		{"retrieval past deadline", shared.NewRetrievalFailure("Failed to list products", fmt.Errorf("query: %w", context.DeadlineExceeded)), http.StatusServiceUnavailable, dto.ErrCodeTimeout, "The request took too long. Please try again"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, dto.ErrCodeTimeout, "The request took too long. Please try again"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("request_id", "req-1")

			h := &BaseHandler{}
			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestPathUUID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h := &BaseHandler{}
	_, ok := h.pathUUID(c, "id")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
}

func serveWithHeader(r http.Handler, method, target, body, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, value)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func joinComma(parts []string) string {
	return strings.Join(parts, ",")
}
