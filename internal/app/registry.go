package app

import (
	"go-leave/internal/auth"
	"go-leave/internal/demo"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/user"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	enforcer *casbin.Enforcer,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	leaveService := leave.NewServiceWithOutbox(gormDB, leaveRepo, outboxRepo, logger)
	demoService := demo.NewService(userRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	userHandler := user.NewHandler(userService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	demoHandler := demo.NewHandler(demoService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler)
		demo.RegisterRoutes(api, demoHandler)
		user.RegisterRoutes(api, userHandler, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, logger)
	}

	return nil
}
