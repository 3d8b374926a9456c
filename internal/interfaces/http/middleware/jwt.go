package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/infrastructure/auth"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys set by JWTAuth. UserIDKey matches the key the access log reads.
const (
	ClaimsKey    = "jwt_claims"
	UserIDKey    = "user_id"
	RoleKey      = "role"
	AuthHeader   = "Authorization"
	BearerPrefix = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Validator auth.TokenValidator
	Logger    *zap.Logger
}

// JWTAuth requires a valid bearer token and exposes the caller identity to
// handlers and to the request-scoped logger
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			rejectToken(c, log, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			rejectToken(c, log, err, "Token validation failed")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, string(claims.Role))

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeader)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func rejectToken(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Debug("jwt authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortWithError(c, dto.ErrCodeTokenInvalid, "Token is not yet valid")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrInvalidRole):
		abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token")
	default:
		abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
	}
}

// RequireRole allows only callers whose token carries one of roles.
// It must run after JWTAuth.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, dto.ErrCodeForbidden, "Insufficient permissions")
	}
}

// GetClaims returns the verified claims, or nil outside JWTAuth
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user, or uuid.Nil when there is none
func GetUserID(c *gin.Context) uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil
	}
	return id
}
