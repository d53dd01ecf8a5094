package demo

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/demo/init", middleware.RateLimitByIP(0.5, 3), handler.Init)
}
