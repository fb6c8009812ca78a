// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/jwt"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	"github.com/rentalhub/marketplace-backend/internal/models"
)

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyClaims = "claims"
)

// UserLookup loads the current state of a user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate verifies the bearer token and re-checks the account status on
// every request.
func Authenticate(jwtManager *jwt.Manager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "Authentication token is missing or malformed.")
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.AbortWithError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil {
			response.AbortWithError(c, http.StatusUnauthorized, "User not found.")
			return
		}
		if user.Status != models.UserStatusActive {
			response.AbortWithError(c, http.StatusForbidden, "User account is "+string(user.Status)+".")
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyEmail, user.Email)
		c.Set(ContextKeyRole, string(user.Role))
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// extractToken reads "Authorization: Bearer <token>".
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// GetUserID returns the authenticated user id, or "" when anonymous.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetEmail returns the authenticated email
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// GetRole returns the authenticated role
func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}
