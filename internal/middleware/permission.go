package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/response"
	"github.com/rentalhub/marketplace-backend/internal/models"
)

const msgForbidden = "You do not have permission to perform this action."

// RequireRoles allows only the listed roles. Must run after Authenticate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[string(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "Authentication token is missing or malformed.")
			return
		}
		if _, ok := roleSet[role]; !ok {
			response.AbortWithError(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

// RequireAdmin admin only
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// RequireAgent agent only
func RequireAgent() gin.HandlerFunc {
	return RequireRoles(models.RoleAgent)
}

// RequireClient client only
func RequireClient() gin.HandlerFunc {
	return RequireRoles(models.RoleClient)
}
