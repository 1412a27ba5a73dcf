package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	SQLDriverPQ  = "pq"
	SQLDriverPGX = "pgx"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	StrictStatus   bool
}

type StoreConfig struct {
	Driver  string
	Timeout time.Duration
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLDriver selects the database/sql driver: "pq" (lib/pq) or "pgx" (pgx pool).
	SQLDriver string
	MaxConns  int
	MinConns  int
}

type JobsConfig struct {
	// StoreProbeSchedule is a seconds-resolution cron spec; empty disables the probe.
	StoreProbeSchedule string
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
			StrictStatus:   getEnvAsBool("ISSUES_STRICT_STATUS", false),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
			Timeout: getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "issuetracker"),
			Collection: getEnv("MONGO_COLLECTION", "projects"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "issuetracker"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			SQLDriver: strings.ToLower(getEnv("DB_SQL_DRIVER", SQLDriverPQ)),
			MaxConns:  getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:  getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Jobs: JobsConfig{
			StoreProbeSchedule: getEnv("STORE_PROBE_SCHEDULE", ""),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "issue-tracker"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.SQLDriver != SQLDriverPQ && c.Database.SQLDriver != SQLDriverPGX {
			return fmt.Errorf("unknown DB_SQL_DRIVER %q", c.Database.SQLDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn().Str("key", key).Float64("default", defaultValue).Msg("invalid number, using default")
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Dur("default", defaultValue).Msg("invalid duration, using default")
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
