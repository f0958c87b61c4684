package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	devAdminPassword = "portfolio-dev"
	devJWTSecret     = "dev-jwt-secret-not-for-production-use"
)

type Config struct {
	Env              string
	Port             string
	DatabaseURL      string
	PublicBaseURL    string
	StorageDir       string
	StorageBucket    string
	LocalStorePath   string
	AdminPassword    string
	JWTSecret        string
	RedisURL         string
	LogFile          string
	ChatSendInterval time.Duration
}

// Load reads configuration from the environment, after merging a .env
// file when one is present. An empty DatabaseURL means the remote data
// service is not configured, which is a supported mode.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return &Config{
		Env:              getEnv("ENV", "development"),
		Port:             port,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		StorageDir:       getEnv("STORAGE_DIR", "./data/storage"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "project-images"),
		LocalStorePath:   getEnv("LOCAL_STORE_PATH", "./data/local.db"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", devAdminPassword),
		JWTSecret:        getEnv("JWT_SECRET", devJWTSecret),
		RedisURL:         os.Getenv("REDIS_URL"),
		LogFile:          getEnv("LOG_FILE", "./logs/portfolio.log"),
		ChatSendInterval: getEnvDuration("CHAT_SEND_INTERVAL", 2*time.Second),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseConfigured reports whether the remote data service is enabled.
func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != ""
}

// UsingDevSecrets reports whether the admin password or token secret
// still have their development defaults.
func (c *Config) UsingDevSecrets() bool {
	return c.AdminPassword == devAdminPassword || c.JWTSecret == devJWTSecret
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
