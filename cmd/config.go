package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"bookstore/internal/adapters/out/redis"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPPort      = "8080"
	defaultDBSslMode     = "disable"
	defaultRetryAttempts = 3
	defaultRedisAddr     = "localhost:6379"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CacheKeyPrefix string

	LogLevel string

	// OrderRetryAttempts bounds how often checkout re-runs after a serialization conflict.
	OrderRetryAttempts int
}

// LoadConfig reads the environment. Values from a .env file in the working
// directory are loaded first; variables already set in the environment win,
// and a missing .env file is not an error.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	attempts, err := intEnv("ORDER_RETRY_ATTEMPTS", defaultRetryAttempts)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:           stringEnv("HTTP_PORT", defaultHTTPPort),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          stringEnv("DB_SSLMODE", defaultDBSslMode),
		RedisAddr:          stringEnv("REDIS_ADDR", defaultRedisAddr),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		CacheKeyPrefix:     stringEnv("CACHE_KEY_PREFIX", redis.DefaultKeyPrefix),
		LogLevel:           stringEnv("LOG_LEVEL", "info"),
		OrderRetryAttempts: attempts,
	}, nil
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	required := map[string]string{
		"DB_HOST":    c.DBHost,
		"DB_PORT":    c.DBPort,
		"DB_USER":    c.DBUser,
		"DB_NAME":    c.DBName,
		"HTTP_PORT":  c.HTTPPort,
		"DB_SSLMODE": c.DBSslMode,
	}

	var missing []string
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	var err error
	if len(missing) > 0 {
		slices.Sort(missing)
		err = fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.OrderRetryAttempts < 1 {
		err = errors.Join(err, fmt.Errorf("ORDER_RETRY_ATTEMPTS must be at least 1, got %d", c.OrderRetryAttempts))
	}
	return err
}

// DSN builds the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
