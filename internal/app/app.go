package app

import (
	"database/sql"
	"fmt"
	"net/http"

	"go-hostel-leave/internal/auth"
	"go-hostel-leave/internal/bootstrap"
	"go-hostel-leave/internal/leave"
	"go-hostel-leave/internal/middleware"
	"go-hostel-leave/internal/shared/config"
	"go-hostel-leave/internal/shared/connection"
	"go-hostel-leave/internal/shared/migration"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// infrastructure holds the connections a store selection produced. Fields
// are nil when the matching backend is not in use.
type infrastructure struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	rdb    *redis.Client
}

func (i infrastructure) close(logger *zap.Logger) {
	if i.rdb != nil {
		if err := i.rdb.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if i.sqlDB != nil {
		if err := i.sqlDB.Close(); err != nil {
			logger.Warn("close database failed", zap.Error(err))
		}
	}
}

// BuildApp wires infrastructure, modules and routes onto router. The
// returned cleanup closes every connection it opened.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")

	infra, err := setupInfrastructure(cfg, log)
	if err != nil {
		return nil, err
	}
	cleanup := func() { infra.close(log) }

	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.AuditTrail(bootstrap.NewStdoutAuditLogger(logger)),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": cfg.Store})
	})

	if err := registerModules(router, cfg, infra, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

func setupInfrastructure(cfg config.Config, log *zap.Logger) (infrastructure, error) {
	var infra infrastructure

	switch cfg.Store {
	case config.StoreMemory:
		log.Info("using in-memory store")
	case config.StoreSQL:
		gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
		if err != nil {
			return infra, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return infra, err
		}
		infra.gormDB, infra.sqlDB = gormDB, sqlDB

		if err := migrate(cfg.Database.Driver, gormDB, sqlDB); err != nil {
			infra.close(log)
			return infrastructure{}, err
		}
		log.Info("database ready", zap.String("driver", cfg.Database.Driver))
	default:
		return infra, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store)
	}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			infra.close(log)
			return infrastructure{}, err
		}
		infra.rdb = rdb
	} else {
		log.Info("REDIS_ADDR empty, cache and idempotency disabled")
	}

	return infra, nil
}

// migrate runs the embedded goose migrations on postgres. SQLite is a local
// store only and is brought up with AutoMigrate.
func migrate(driver string, gormDB *gorm.DB, sqlDB *sql.DB) error {
	if driver == config.DriverPostgres {
		return migration.Up(sqlDB)
	}
	return gormDB.AutoMigrate(&auth.User{}, &leave.LeaveRequest{}, &leave.LeaveDecision{})
}
