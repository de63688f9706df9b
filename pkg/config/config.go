package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "GHAZL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GHAZL_APP_ENV" default:"dev"`
	Port         string `envconfig:"GHAZL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GHAZL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GHAZL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN  string `envconfig:"GHAZL_DB_DSN"`
	Path string `envconfig:"GHAZL_DB_PATH" default:"ghazl.db"`

	BusyTimeout     time.Duration `envconfig:"GHAZL_DB_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns    int           `envconfig:"GHAZL_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"GHAZL_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"GHAZL_DB_CONN_MAX_LIFETIME" default:"0"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GHAZL_AUTO_MIGRATE" default:"false"`
}

// ensureDSN derives the SQLite DSN from the configured file path when no
// explicit DSN is provided. Foreign keys are enforced and writers wait for
// the busy timeout instead of failing immediately.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Path == "" {
		return fmt.Errorf("either GHAZL_DB_DSN or GHAZL_DB_PATH is required")
	}

	q := url.Values{}
	q.Set("_fk", "1")
	if db.BusyTimeout > 0 {
		q.Set("_busy_timeout", fmt.Sprintf("%d", db.BusyTimeout.Milliseconds()))
	}

	db.DSN = fmt.Sprintf("file:%s?%s", db.Path, q.Encode())
	return nil
}
