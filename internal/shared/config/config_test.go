package config_test

import (
	"testing"
	"time"

	"go-hostel-leave/internal/shared/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("LEAVE_CACHE_TTL", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SEED_DEMO_USERS", "")
	t.Setenv("OUTBOX_POLL_INTERVAL", "")

	cfg := config.Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, config.StoreSQL, cfg.Store)
	assert.Equal(t, 10*time.Minute, cfg.LeaveCacheTTL)
	assert.Contains(t, cfg.Database.DSN(), "dbname=hostel_leave")
	assert.False(t, cfg.SeedDemoUsers)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, "hostel-leave-notifier", cfg.ConsumerGroupID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/leave.db")
	t.Setenv("LEAVE_CACHE_TTL", "90s")
	t.Setenv("DB_MAX_RETRIES", "not-a-number")
	t.Setenv("STORE_DRIVER", config.StoreMemory)
	t.Setenv("SEED_DEMO_USERS", "true")

	cfg := config.Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/tmp/leave.db", cfg.Database.DSN())
	assert.Equal(t, 90*time.Second, cfg.LeaveCacheTTL)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.True(t, cfg.SeedDemoUsers)
}
