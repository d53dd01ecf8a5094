package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(1, 5), handler.Login)
		auth.POST("/register", middleware.RateLimitByIP(0.5, 3), handler.Register)
		auth.POST("/refresh", middleware.RateLimitByIP(1, 5), handler.RefreshToken)
	}
}
