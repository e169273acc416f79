package middlewares

import (
	"net/http"

	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to users whose role is in the allowed
// set. The user row is re-read (through the cache) so deactivation and role
// changes take effect before the token expires.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userId, ok := utils.GetUserIdFromContext(ctx)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		user, err := models.GetUserCached(ctx, userId)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		if user.IsActive == nil || !*user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
			c.Abort()
			return
		}
		if !allowed[user.Role] {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
