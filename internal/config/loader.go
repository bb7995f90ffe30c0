package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "stride.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "STRIDE_PORT")
	setString(&cfg.Server.CORSOrigin, "STRIDE_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "STRIDE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "STRIDE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "STRIDE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "STRIDE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "STRIDE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Planner.URL, "STRIDE_PLANNER_URL")
	setString(&cfg.Planner.APIKey, "STRIDE_PLANNER_API_KEY")
	setDuration(&cfg.Planner.Timeout, "STRIDE_PLANNER_TIMEOUT")
	setString(&cfg.Auth.Secret, "STRIDE_AUTH_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "STRIDE_AUTH_TOKEN_TTL")
	setInt(&cfg.Auth.BcryptCost, "STRIDE_AUTH_BCRYPT_COST")
	setString(&cfg.Logging.Level, "STRIDE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "STRIDE_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "STRIDE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "STRIDE_BREAKER_TIMEOUT")
	setInt64(&cfg.Cache.MaxSizeMB, "STRIDE_CACHE_MAX_SIZE_MB")
	setDuration(&cfg.Cache.ScheduleTTL, "STRIDE_CACHE_SCHEDULE_TTL")
}

// validate rejects configurations that cannot produce a working service.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port must not be empty")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres dsn must not be empty")
	}
	if cfg.Planner.URL == "" {
		return errors.New("planner url must not be empty")
	}
	if cfg.Planner.Timeout <= 0 {
		return errors.New("planner timeout must be positive")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("auth token_ttl must be positive")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return errors.New("auth bcrypt_cost must be between 4 and 31")
	}
	if cfg.Breaker.MaxFailures <= 0 {
		return errors.New("breaker max_failures must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
