package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"storefront-api/internal/logger"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"https://adit-investment.netlify.app",
	"https://adit-investment-1.onrender.com",
}

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	MongoURI        string
	MongoDB         string
	StoreDriver     string
	RequestTimeout  time.Duration
	CORSOrigins     []string
	CacheDriver     string
	CacheTTL        time.Duration
	RedisAddr       string
	TracingEnabled  bool
	JaegerEndpoint  string
	ShutdownTimeout time.Duration
}

// LoadConfig lee .env si existe y luego el entorno del proceso.
func LoadConfig() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Error loading .env file")
		} else {
			logger.Logger.Info().Msg(".env file loaded")
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDB:         getEnv("MONGO_DB", "ADIT-website"),
		StoreDriver:     getEnv("STORE_DRIVER", StoreMongo),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 5*time.Second),
		CORSOrigins:     getList("CORS_ORIGINS", defaultOrigins),
		CacheDriver:     getEnv("CACHE_DRIVER", CacheMemory),
		CacheTTL:        getDuration("CACHE_TTL", 2*time.Minute),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		TracingEnabled:  getEnv("TRACING_ENABLED", "false") == "true",
		JaegerEndpoint:  getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// IsDevelopment indica si aplican los logs de consola y el modo debug de gin.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate rechaza configuraciones con las que el servidor no puede iniciar.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", StoreMongo)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.CacheDriver {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Logger.Warn().
			Str("key", key).
			Str("value", raw).
			Dur("default", fallback).
			Msg("Invalid duration, using default")
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
