package config

const EnvPrefix = "AGROCONNECT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "AGROCONNECT_APP_ENV"
	EnvPort                   = "AGROCONNECT_APP_PORT"
	EnvDBDSN                  = "AGROCONNECT_DB_DSN"
	EnvDBDriver               = "AGROCONNECT_DB_DRIVER"
	EnvDBHost                 = "AGROCONNECT_DB_HOST"
	EnvDBUser                 = "AGROCONNECT_DB_USER"
	EnvDBPassword             = "AGROCONNECT_DB_PASSWORD"
	EnvDBName                 = "AGROCONNECT_DB_NAME"
	EnvUseSQLite              = "AGROCONNECT_USE_SQLITE"
	EnvRedisURL               = "AGROCONNECT_REDIS_URL"
	EnvJWTSecret              = "AGROCONNECT_JWT_SECRET"
	EnvJWTIssuer              = "AGROCONNECT_JWT_ISSUER"
	EnvJWTExpMins             = "AGROCONNECT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AGROCONNECT_REFRESH_TOKEN_TTL_MINUTES"
	EnvPresenceWindow         = "AGROCONNECT_PRESENCE_WINDOW"
	EnvCORSAllowedOrigins     = "AGROCONNECT_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
