package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Task store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port          string
	DatabasePath  string
	TaskStore     string
	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	BcryptCost    int
	GinMode       string
	LogSQL        bool
}

// Load reads the configuration from environment variables, applying defaults
// for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8008"),
		DatabasePath: getEnv("DATABASE_PATH", ":memory:"),
		TaskStore:    strings.ToLower(getEnv("TASK_STORE", BackendMemory)),
		JWTSecret:    getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:    getEnv("JWT_ISSUER", "schedulsy-api"),
		JWTAudience:  getEnv("JWT_AUDIENCE", "schedulsy-clients"),
		GinMode:      getEnv("GIN_MODE", "release"),
	}

	var err error
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", bcrypt.DefaultCost+2); err != nil {
		return Config{}, err
	}
	if cfg.LogSQL, err = getEnvBool("LOG_SQL", false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c Config) Validate() error {
	switch c.TaskStore {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("TASK_STORE must be %q or %q, got %q", BackendMemory, BackendSQLite, c.TaskStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int value for %s: %q", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool value for %s: %q", key, v)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %q", key, v)
	}
	return d, nil
}
