package main

import (
	"context"

	"go-leave/internal/config"
	"go-leave/internal/demo"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/connection"
	"go-leave/internal/user"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Seed akun demo dari command line, untuk environment tanpa akses ke endpoint
// /demo/init.
func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&user.User{},
		&leave.LeaveRequest{},
		&kafka.OutboxEvent{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	seedService := demo.NewService(user.NewRepository(gormDB))

	res, err := seedService.Init(context.Background())
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	logger.Info(res.Message, zap.Int("users", len(res.Users)))
}
