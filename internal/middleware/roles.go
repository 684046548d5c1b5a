package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/auth"
	"github.com/01moynul/strongx-golang/internal/models"
)

// RequireRole must run after AuthMiddleware. It lets the request through when
// the user's role is one of roles or outranks them.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(CtxUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		role, _ := raw.(string)

		if !auth.HasRole(role, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient permissions",
				"required": strings.Join(roles, ", "),
				"current":  role,
			})
			return
		}

		c.Next()
	}
}

// RequireStaff admits STAFF, ADMIN and SUPER_ADMIN.
func RequireStaff() gin.HandlerFunc { return RequireRole(models.RoleStaff) }

// RequireAdmin admits ADMIN and SUPER_ADMIN.
func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }

// RequireSuperAdmin admits SUPER_ADMIN only.
func RequireSuperAdmin() gin.HandlerFunc { return RequireRole(models.RoleSuperAdmin) }
