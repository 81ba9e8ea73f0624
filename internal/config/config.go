package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Events   EventsConfig
	Status   StatusConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines bearer token parameters. An empty secret leaves write routes open.
type AuthConfig struct {
	JWTSecret             string
	Issuer                string
	AccessTokenTTLMinutes int
}

// EventsConfig controls where license lifecycle events are forwarded.
type EventsConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// StatusConfig tunes the shared status snapshot kept in Redis.
type StatusConfig struct {
	CacheTTLSeconds int
}

// fileConfig mirrors the optional YAML config file. Zero values fall through to defaults.
type fileConfig struct {
	App struct {
		Name                  string `yaml:"name"`
		Env                   string `yaml:"env"`
		Host                  string `yaml:"host"`
		Port                  string `yaml:"port"`
		Version               string `yaml:"version"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	} `yaml:"app"`
	Postgres struct {
		DSN            string `yaml:"dsn"`
		MaxConns       int    `yaml:"max_conns"`
		MinConns       int    `yaml:"min_conns"`
		RunMigrations  *bool  `yaml:"run_migrations"`
		ConnMaxIdleSec int    `yaml:"conn_max_idle_seconds"`
		ConnMaxLifeSec int    `yaml:"conn_max_life_seconds"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Logger struct {
		Level string `yaml:"level"`
	} `yaml:"logger"`
	Auth struct {
		JWTSecret             string `yaml:"jwt_secret"`
		Issuer                string `yaml:"issuer"`
		AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
	} `yaml:"auth"`
	Events struct {
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
	} `yaml:"events"`
	Status struct {
		CacheTTLSeconds *int `yaml:"cache_ttl_seconds"`
	} `yaml:"status"`
}

// Load reads configuration from environment variables, applying defaults where possible.
// When path (or CONFIG_FILE) names a YAML file its values replace the defaults; environment
// variables still win over both.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	var file fileConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(file.Redis.DB)))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	runMigrations := true
	if file.Postgres.RunMigrations != nil {
		runMigrations = *file.Postgres.RunMigrations
	}
	cacheTTL := 300
	if file.Status.CacheTTLSeconds != nil {
		cacheTTL = *file.Status.CacheTTLSeconds
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", orString(file.App.Name, "license-service")),
			Env:                   getEnv("APP_ENV", orString(file.App.Env, "development")),
			Host:                  getEnv("APP_HOST", orString(file.App.Host, "0.0.0.0")),
			Port:                  getEnv("APP_PORT", orString(file.App.Port, "8080")),
			Version:               getEnv("APP_VERSION", orString(file.App.Version, "dev")),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", orInt(file.App.RequestTimeoutSeconds, 30)),
		},
		Postgres: PostgresConfig{
			DSN:            getEnv("POSTGRES_DSN", file.Postgres.DSN),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", orInt(file.Postgres.MaxConns, 10))),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", orInt(file.Postgres.MinConns, 2))),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", runMigrations),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", orInt(file.Postgres.ConnMaxIdleSec, 30))),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", orInt(file.Postgres.ConnMaxLifeSec, 300))),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", file.Redis.Addr),
			Password: getEnv("REDIS_PASSWORD", file.Redis.Password),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", orString(file.Logger.Level, "info")),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", file.Auth.JWTSecret),
			Issuer:                getEnv("AUTH_ISSUER", orString(file.Auth.Issuer, "license-service")),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", orInt(file.Auth.AccessTokenTTLMinutes, 60)),
		},
		Events: EventsConfig{
			KafkaBrokers: getEnvAsList("KAFKA_BROKERS", file.Events.KafkaBrokers),
			KafkaTopic:   getEnv("KAFKA_TOPIC", orString(file.Events.KafkaTopic, "license.lifecycle")),
		},
		Status: StatusConfig{
			CacheTTLSeconds: getEnvAsInt("STATUS_CACHE_TTL_SECONDS", cacheTTL),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the lifetime of minted tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// CacheTTL returns the status snapshot TTL; zero disables the snapshot.
func (s StatusConfig) CacheTTL() time.Duration {
	if s.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func orString(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func orInt(val, fallback int) int {
	if val != 0 {
		return val
	}
	return fallback
}
