package config

const EnvPrefix = "SHIPQUOTE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv            = "SHIPQUOTE_APP_ENV"
	EnvPort              = "SHIPQUOTE_APP_PORT"
	EnvLogLevel          = "SHIPQUOTE_LOG_LEVEL"
	EnvLogFormat         = "SHIPQUOTE_LOG_FORMAT"
	EnvMetricsPort       = "SHIPQUOTE_METRICS_PORT"
	EnvDBDSN             = "SHIPQUOTE_DB_DSN"
	EnvDBHost            = "SHIPQUOTE_DB_HOST"
	EnvDBPort            = "SHIPQUOTE_DB_PORT"
	EnvDBUser            = "SHIPQUOTE_DB_USER"
	EnvDBPassword        = "SHIPQUOTE_DB_PASSWORD"
	EnvDBName            = "SHIPQUOTE_DB_NAME"
	EnvDBDriver          = "SHIPQUOTE_DB_DRIVER"
	EnvRedisURL          = "SHIPQUOTE_REDIS_URL"
	EnvQuoteRateLimit    = "SHIPQUOTE_RATE_LIMIT_QUOTE_LIMIT"
	EnvQuoteRateWindow   = "SHIPQUOTE_RATE_LIMIT_QUOTE_WINDOW"
	EnvTrustedProxies    = "SHIPQUOTE_RATE_LIMIT_TRUSTED_PROXIES"
	EnvPostalCodeBaseURL = "SHIPQUOTE_POSTAL_CODE_BASE_URL"
	EnvPostalCodeTimeout = "SHIPQUOTE_POSTAL_CODE_TIMEOUT"
	EnvCORSOrigins       = "SHIPQUOTE_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
