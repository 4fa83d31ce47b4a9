package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	// Server
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Storage
	PostgresURL string
	RedisAddr   string

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// SeedDemoData creates a pair of demo users and events at startup.
	SeedDemoData bool

	LogLevel logrus.Level
}

func Load() Config {
	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "5s"),

		PostgresURL: getEnv("POSTGRES_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		JWTSecret:  getEnv("JWT_SECRET_KEY", defaultJWTSecret),
		TokenTTL:   getEnvAsDuration("TOKEN_TTL", "24h"),
		BcryptCost: getEnvAsInt("BCRYPT_COST", 0),

		SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", false),

		LogLevel: getEnvAsLevel("LOG_LEVEL", logrus.InfoLevel),
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.PostgresURL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	// Zero selects bcrypt.DefaultCost.
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	return errors.Join(errs...)
}

// PipelineEnabled reports whether lifecycle events are forwarded to Redis.
func (c Config) PipelineEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsLevel(key string, defaultValue logrus.Level) logrus.Level {
	if level, err := logrus.ParseLevel(getEnv(key, "")); err == nil {
		return level
	}
	return defaultValue
}
