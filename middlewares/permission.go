package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restopos/backend/rbac"
	"github.com/restopos/backend/utils"
)

// RequirePermission gates a route on the rbac capability matrix using the
// role claim set by AuthMiddleware.
func RequirePermission(perm rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok || !rbac.HasPermission(rbac.Role(role), perm) {
			utils.RespondErrorCode(c, http.StatusForbidden, errors.New("insufficient permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}
