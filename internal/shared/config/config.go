package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StoreSQL    = "sql"
	StoreMemory = "memory"
)

type Config struct {
	AppEnv string
	Port   string

	Database DatabaseConfig
	Store    string

	RedisAddr     string
	KafkaBroker   string
	JWTSecret     string
	LeaveCacheTTL time.Duration

	// RBACModelPath overrides the built-in casbin model when set.
	RBACModelPath string

	OutboxPollInterval time.Duration
	ConsumerGroupID    string

	SeedDemoUsers bool
	DemoPassword  string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
	MaxRetries int
}

// DSN mengembalikan connection string sesuai driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load membaca konfigurasi dari environment (sudah diisi godotenv di main).
func Load() Config {
	return Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverPostgres),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			Name:       getEnv("DB_NAME", "hostel_leave"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "hostel_leave.db"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		Store:         getEnv("STORE_DRIVER", StoreSQL),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LeaveCacheTTL: getEnvDuration("LEAVE_CACHE_TTL", 10*time.Minute),
		RBACModelPath: os.Getenv("RBAC_MODEL_PATH"),

		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		ConsumerGroupID:    getEnv("KAFKA_CONSUMER_GROUP", "hostel-leave-notifier"),

		SeedDemoUsers: getEnvBool("SEED_DEMO_USERS", false),
		DemoPassword:  getEnv("DEMO_PASSWORD", "password123"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
