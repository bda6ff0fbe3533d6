// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = "8080"
	defaultDatabaseURL     = "piq.db"
	defaultLogLevel        = "info"
	defaultRedisAddr       = "localhost:6379"
	defaultRedisDialTO     = "5s"
	defaultStorageDriver   = "local"
	defaultStorageLocalDir = "./uploads"
	defaultStorageRegion   = "us-east-1"
	defaultShutdownTimeout = "10s"
)

type Config struct {
	App     AppConfig
	Auth    AuthConfig
	Redis   RedisConfig
	Storage StorageConfig
	Admin   AdminConfig
	CORS    CORSConfig
}

type AppConfig struct {
	Env             string
	Port            string
	DatabaseURL     string
	LogLevel        string
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	URL         string
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

type StorageConfig struct {
	Driver        string // local, s3 or minio
	LocalDir      string
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

type AdminConfig struct {
	Enabled  bool
	Email    string
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.App.Env = strings.ToLower(appEnv)
	cfg.App.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.App.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.App.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))

	var err error
	cfg.App.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg.Auth, err = loadAuthConfig(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	cfg.Redis, err = loadRedisConfig()
	if err != nil {
		return nil, err
	}

	cfg.Storage = loadStorageConfig()
	if err := validateStorageConfig(cfg.Storage); err != nil {
		return nil, err
	}

	cfg.Admin = AdminConfig{
		Enabled:  parseBoolEnv("ADMIN_ACCOUNT_CREATION_ENABLED", "false"),
		Email:    strings.TrimSpace(os.Getenv("ADMIN_INITIAL_EMAIL")),
		Password: os.Getenv("ADMIN_INITIAL_PASSWORD"),
	}

	cfg.CORS.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	cfg := RedisConfig{
		URL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		Addr:     strings.TrimSpace(getEnv("REDIS_ADDR", defaultRedisAddr)),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return cfg, fmt.Errorf("invalid REDIS_DB value %q", raw)
		}
		cfg.DB = db
	}

	var err error
	cfg.DialTimeout, err = parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultRedisDialTO)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:        strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultStorageDriver))),
		LocalDir:      strings.TrimSpace(getEnv("STORAGE_LOCAL_DIR", defaultStorageLocalDir)),
		Bucket:        strings.TrimSpace(os.Getenv("STORAGE_BUCKET")),
		Endpoint:      strings.TrimSpace(os.Getenv("STORAGE_ENDPOINT")),
		Region:        strings.TrimSpace(getEnv("STORAGE_REGION", defaultStorageRegion)),
		AccessKey:     strings.TrimSpace(os.Getenv("STORAGE_ACCESS_KEY")),
		SecretKey:     strings.TrimSpace(os.Getenv("STORAGE_SECRET_KEY")),
		UseSSL:        parseBoolEnv("STORAGE_USE_SSL", "true"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_PUBLIC_BASE_URL")), "/"),
	}
}

func validateStorageConfig(cfg StorageConfig) error {
	switch cfg.Driver {
	case "local":
		if cfg.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR must not be empty")
		}
	case "s3":
		if cfg.Bucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required for the s3 driver")
		}
	case "minio":
		if cfg.Bucket == "" || cfg.Endpoint == "" {
			return fmt.Errorf("STORAGE_BUCKET and STORAGE_ENDPOINT are required for the minio driver")
		}
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required for the minio driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, s3, minio")
	}
	return nil
}

// IsProdLike reports whether env needs production settings.
func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
