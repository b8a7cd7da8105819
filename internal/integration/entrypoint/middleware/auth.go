// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/application/adapter"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// TenantIDKey is the context key for the authenticated user's tenant.
	TenantIDKey ContextKey = "tenant_id"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey ContextKey = "user_email"
)

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	verifier adapter.TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(verifier adapter.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate returns a Gin middleware handler that enforces JWT authentication
// and resolves the caller's tenant.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header is required", string(domainerror.ErrCodeMissingToken))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format", string(domainerror.ErrCodeInvalidToken))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			abort(c, http.StatusUnauthorized, "Token is required", string(domainerror.ErrCodeMissingToken))
			return
		}

		claims, err := m.verifier.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domainerror.ErrTenantNotAssigned):
				abort(c, http.StatusForbidden, "User is not assigned to a tenant", string(domainerror.ErrCodeTenantNotAssigned))
			case errors.Is(err, domainerror.ErrExpiredToken):
				abort(c, http.StatusUnauthorized, "Token has expired", string(domainerror.ErrCodeExpiredToken))
			default:
				abort(c, http.StatusUnauthorized, "Invalid or expired token", string(domainerror.ErrCodeInvalidToken))
			}
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(TenantIDKey), claims.TenantID)
		c.Set(string(UserEmailKey), claims.Email)

		c.Next()
	}
}

func abort(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, UserIDKey)
}

// GetTenantIDFromContext extracts the tenant ID from the Gin context.
func GetTenantIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromContext(c, TenantIDKey)
}

// GetUserEmailFromContext extracts the user email from the Gin context.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(string(UserEmailKey))
	if !exists {
		return "", false
	}
	emailStr, ok := email.(string)
	return emailStr, ok
}

func uuidFromContext(c *gin.Context, key ContextKey) (uuid.UUID, bool) {
	value, exists := c.Get(string(key))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
