package config

// EnvPrefix is empty because every field carries its full MESSMATE_ name in its
// envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "MESSMATE_APP_ENV"
	EnvPort            = "MESSMATE_APP_PORT"
	EnvLogLevel        = "MESSMATE_LOG_LEVEL"
	EnvSnapshotBackend = "MESSMATE_SNAPSHOT_BACKEND"
	EnvDBDriver        = "MESSMATE_DB_DRIVER"
	EnvDBDSN           = "MESSMATE_DB_DSN"
	EnvRedisURL        = "MESSMATE_REDIS_URL"
)

const (
	SnapshotBackendDB    = "db"
	SnapshotBackendRedis = "redis"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)
