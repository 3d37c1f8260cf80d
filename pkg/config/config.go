package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Snapshot SnapshotConfig
	DB       DBConfig
	Redis    RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MESSMATE_APP_ENV" default:"dev"`
	Port         string `envconfig:"MESSMATE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MESSMATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESSMATE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"MESSMATE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SnapshotConfig selects where state snapshots are persisted.
type SnapshotConfig struct {
	Backend string `envconfig:"MESSMATE_SNAPSHOT_BACKEND" default:"db"`
}

type DBConfig struct {
	Driver string `envconfig:"MESSMATE_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"MESSMATE_DB_DSN" default:"file:messmate.db"`

	MaxOpenConns    int           `envconfig:"MESSMATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MESSMATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MESSMATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MESSMATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MESSMATE_REDIS_URL"`
	Address      string        `envconfig:"MESSMATE_REDIS_ADDR"`
	Password     string        `envconfig:"MESSMATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MESSMATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MESSMATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MESSMATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MESSMATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESSMATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESSMATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Snapshot.Backend) {
	case SnapshotBackendDB:
		switch strings.ToLower(c.DB.Driver) {
		case DBDriverSQLite, DBDriverPostgres:
		default:
			return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
		}
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the db snapshot backend", EnvDBDSN)
		}
	case SnapshotBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s is required for the redis snapshot backend", EnvRedisURL)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvSnapshotBackend, c.Snapshot.Backend)
	}
	return nil
}
