package config

const EnvPrefix = "INVENTORY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendSQLite   = "sqlite"
	StoreBackendMongo    = "mongo"
	StoreBackendMemory   = "memory"

	DefaultSQLiteDSN = "file:inventory.db?cache=shared"
)

const (
	EnvAppEnv       = "INVENTORY_APP_ENV"
	EnvPort         = "INVENTORY_APP_PORT"
	EnvLogLevel     = "INVENTORY_LOG_LEVEL"
	EnvStoreBackend = "INVENTORY_STORE_BACKEND"
	EnvCORSOrigins  = "INVENTORY_CORS_ORIGINS"
	EnvTrustProxy   = "INVENTORY_TRUST_PROXY"

	EnvDBDSN      = "INVENTORY_DB_DSN"
	EnvDBHost     = "INVENTORY_DB_HOST"
	EnvDBPort     = "INVENTORY_DB_PORT"
	EnvDBUser     = "INVENTORY_DB_USER"
	EnvDBPassword = "INVENTORY_DB_PASSWORD"
	EnvDBName     = "INVENTORY_DB_NAME"

	EnvMongoURI      = "INVENTORY_MONGO_URI"
	EnvMongoDatabase = "INVENTORY_MONGO_DATABASE"

	EnvRedisURL = "INVENTORY_REDIS_URL"

	EnvRateLimitWindow = "INVENTORY_RATE_LIMIT_WINDOW"
	EnvRateLimitMax    = "INVENTORY_RATE_LIMIT_MAX"
)
