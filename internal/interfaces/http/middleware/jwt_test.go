package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/infrastructure/auth"
	"github.com/lojinha/backend/internal/infrastructure/config"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "lojinha-test",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func newToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, _, err := svc.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func newProtectedRouter(svc *auth.JWTService, handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuth(JWTConfig{Validator: svc}))
	router.Use(extra...)
	router.GET("/test", handler)
	return router
}

func doRequest(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set(AuthHeader, BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	router := newProtectedRouter(svc, func(c *gin.Context) {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, userID, GetUserID(c))
		assert.Equal(t, userID.String(), c.GetString(UserIDKey))
		assert.Equal(t, string(auth.RoleCustomer), c.GetString(RoleKey))
		assert.Equal(t, userID.String(), logger.GetUserID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	rec := doRequest(router, newToken(t, svc, userID, auth.RoleCustomer))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc, okHandler)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lojinha-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: uuid.NewString(),
		Role:   auth.RoleCustomer,
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherSvc := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-at-least-32-chars", Issuer: "lojinha-test"})

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"missing header", "", "ERR_TOKEN_INVALID"},
		{"garbage", "not-a-jwt", "ERR_TOKEN_INVALID"},
		{"wrong signature", newToken(t, otherSvc, uuid.New(), auth.RoleCustomer), "ERR_TOKEN_INVALID"},
		{"expired", expiredToken, "ERR_TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
			assert.Contains(t, rec.Body.String(), `"request_id"`)
		})
	}
}

func TestJWTAuth_NonBearerScheme(t *testing.T) {
	router := newProtectedRouter(newTestJWTService(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeader, "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc, okHandler, RequireRole(auth.RoleAdmin))

	t.Run("admin passes", func(t *testing.T) {
		rec := doRequest(router, newToken(t, svc, uuid.New(), auth.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		rec := doRequest(router, newToken(t, svc, uuid.New(), auth.RoleCustomer))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
	})
}

func TestRequireRole_WithoutJWT(t *testing.T) {
	router := gin.New()
	router.Use(RequireRole(auth.RoleAdmin))
	router.GET("/test", okHandler)

	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserID_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetUserID(c))
	assert.Nil(t, GetClaims(c))
}
