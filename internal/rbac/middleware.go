package rbac

import (
	"net/http"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize menolak request bila role (di-set oleh JWT middleware) tidak punya
// izin resource:action.
func Authorize(service Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context")
			c.Abort()
			return
		}

		allowed, err := service.Enforce(EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Grant tidak pernah menolak; hanya menandai di context apakah role punya
// izin, supaya handler bisa menyesuaikan scope (misal: list semua vs milik sendiri).
func Grant(service Service, resource, action, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")

		allowed, err := service.Enforce(EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			allowed = false
		}

		c.Set(contextKey, allowed)
		c.Next()
	}
}
