package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leave")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("/balance",
			middleware.RateLimitByUser(3, 10),
			handler.Balance,
		)

		leaves.POST("/request",
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)

		leaves.GET("/requests",
			middleware.RateLimitByUser(3, 10),
			rbac.Grant(rbacService, "leave", "read_all", "can_read_all"),
			handler.List,
		)

		leaves.PUT("/requests/:id",
			middleware.RateLimitByUser(1, 5),
			rbac.Authorize(rbacService, "leave", "review"),
			handler.Review,
		)
	}
}
