package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var in addItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("rule violations list json field names", func(t *testing.T) {
		w := postJSON(router, `{"product_id": "nope", "quantity": 0}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Code
		}
		assert.Equal(t, map[string]string{"product_id": "uuid", "quantity": "required"}, fields)
	})

	t.Run("negative quantity", func(t *testing.T) {
		w := postJSON(router, `{"product_id": "7f1c1f8e-3b1a-4a8e-9b59-4c1b2c3d4e5f", "quantity": -2}`)
		resp := decodeResponse(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "Must be greater than 0", resp.Error.Details[0].Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, `{"product_id":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})

	t.Run("wrong type", func(t *testing.T) {
		w := postJSON(router, `{"product_id": "x", "quantity": "three"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "quantity", resp.Error.Details[0].Field)
		assert.Equal(t, "type", resp.Error.Details[0].Code)
	})

	t.Run("valid input", func(t *testing.T) {
		w := postJSON(router, `{"product_id": "7f1c1f8e-3b1a-4a8e-9b59-4c1b2c3d4e5f", "quantity": 1}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type sample struct {
		Name  string   `validate:"min=3"`
		Items []string `validate:"max=1"`
		Tag   string   `validate:"oneof=new sale"`
	}

	err := validator.New().Struct(sample{Name: "ab", Items: []string{"a", "b"}, Tag: "x"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.Field()] = validationMessage(e)
	}
	assert.Equal(t, "Must be at least 3 characters", messages["Name"])
	assert.Equal(t, "Must contain at most 1 items", messages["Items"])
	assert.Equal(t, "Must be one of: new sale", messages["Tag"])
}
