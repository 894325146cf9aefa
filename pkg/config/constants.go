package config

// EnvPrefix is passed to envconfig when parsing the environment.
const EnvPrefix = "dairydesk"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared between Load, tests and ops tooling.
const (
	EnvAppEnv    = "DAIRYDESK_APP_ENV"
	EnvPort      = "DAIRYDESK_APP_PORT"
	EnvDBDSN     = "DAIRYDESK_DB_DSN"
	EnvDBHost    = "DAIRYDESK_DB_HOST"
	EnvDBUser    = "DAIRYDESK_DB_USER"
	EnvDBName    = "DAIRYDESK_DB_NAME"
	EnvRedisURL  = "DAIRYDESK_REDIS_URL"
	EnvUseSQLite = "DAIRYDESK_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
