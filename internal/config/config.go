package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL        string
	CacheTTLSeconds int

	// Server
	Port        string
	FrontendURL string

	// Simulation limits
	MaxStepsLimit    int
	DefaultEpsilon   float64
	StrictTables     bool
	ClosureTolerance float64

	// Run retention
	RunRetentionHours     int
	RetentionPollInterval int // seconds

	// Security
	JWTSecret       string
	TokenTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/billiard?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 600),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation limits
		MaxStepsLimit:    getEnvInt("MAX_STEPS_LIMIT", 100000),
		DefaultEpsilon:   getEnvFloat("DEFAULT_EPSILON", 1e-8),
		StrictTables:     getEnvBool("STRICT_TABLES", false),
		ClosureTolerance: getEnvFloat("CLOSURE_TOLERANCE", 1e-9),

		// Run retention (0 hours keeps runs forever)
		RunRetentionHours:     getEnvInt("RUN_RETENTION_HOURS", 168),
		RetentionPollInterval: getEnvInt("RETENTION_POLL_INTERVAL", 3600),

		// Security
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
