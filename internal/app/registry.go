package app

import (
	"context"

	"go-hostel-leave/internal/auth"
	"go-hostel-leave/internal/leave"
	"go-hostel-leave/internal/messaging/kafka"
	"go-hostel-leave/internal/rbac"
	"go-hostel-leave/internal/rbac/infra"
	"go-hostel-leave/internal/shared/config"
	"go-hostel-leave/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	deps infrastructure,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	var (
		authRepo   auth.Repository
		leaveRepo  leave.Repository
		outboxRepo kafka.OutboxRepository
	)
	if deps.gormDB != nil {
		authRepo = auth.NewRepository(deps.gormDB)
		leaveRepo = leave.NewRepository(deps.gormDB)
		// outbox_events only exists in the postgres schema
		if cfg.Database.Driver == config.DriverPostgres {
			outboxRepo = kafka.NewOutboxRepository(deps.sqlDB)
		}
	} else {
		authRepo = auth.NewMemoryRepository()
		leaveRepo = leave.NewMemoryRepository()
	}

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPolicies, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.JWTSecret, logger)
	userService := user.NewService(authRepo, logger)
	leaveService := leave.NewServiceWithOutbox(deps.sqlDB, leaveRepo, outboxRepo, deps.rdb, cfg.LeaveCacheTTL, logger)

	if cfg.SeedDemoUsers || cfg.Store == config.StoreMemory {
		if err := auth.SeedDemoUsers(context.Background(), authService, cfg.DemoPassword, logger.Named("app.seed")); err != nil {
			return err
		}
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	userHandler := user.NewHandler(userService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)
		leave.RegisterRoutes(api, leaveHandler, rbacService, deps.rdb, cfg.JWTSecret, logger)
		user.RegisterRoutes(api, userHandler, rbacService, cfg.JWTSecret, logger)
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)
	}

	return nil
}
