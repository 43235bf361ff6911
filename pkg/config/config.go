package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	APIRateLimit  APIRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Presence      PresenceConfig
	Chat          ChatConfig
	Catalog       CatalogConfig
	Realtime      RealtimeConfig
	Cron          CronConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validateDriver(); err != nil {
		return nil, err
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGROCONNECT_APP_ENV" required:"true"`
	Port         string `envconfig:"AGROCONNECT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGROCONNECT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGROCONNECT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"AGROCONNECT_LOG_FORMAT"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AGROCONNECT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AGROCONNECT_DB_DSN"`
	Driver string `envconfig:"AGROCONNECT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGROCONNECT_DB_HOST"`
	LegacyPort     int    `envconfig:"AGROCONNECT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGROCONNECT_DB_USER"`
	LegacyPassword string `envconfig:"AGROCONNECT_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGROCONNECT_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGROCONNECT_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"AGROCONNECT_SQLITE_PATH" default:"agroconnect.db"`

	MaxOpenConns    int           `envconfig:"AGROCONNECT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGROCONNECT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGROCONNECT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGROCONNECT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"AGROCONNECT_DB_SLOW_QUERY" default:"250ms"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"AGROCONNECT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGROCONNECT_REDIS_ADDR"`
	Password     string        `envconfig:"AGROCONNECT_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGROCONNECT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGROCONNECT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGROCONNECT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGROCONNECT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGROCONNECT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGROCONNECT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AGROCONNECT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AGROCONNECT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AGROCONNECT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AGROCONNECT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGROCONNECT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGROCONNECT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGROCONNECT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGROCONNECT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGROCONNECT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AGROCONNECT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AGROCONNECT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AGROCONNECT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AGROCONNECT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AGROCONNECT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AGROCONNECT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// APIRateLimitConfig drives the in-process token bucket applied to authenticated routes.
type APIRateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"AGROCONNECT_API_RATE_LIMIT_RPS" default:"20"`
	Burst             int           `envconfig:"AGROCONNECT_API_RATE_LIMIT_BURST" default:"40"`
	IdleTTL           time.Duration `envconfig:"AGROCONNECT_API_RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"AGROCONNECT_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"AGROCONNECT_AUTO_MIGRATE" default:"false"`
	SeedEquipment bool `envconfig:"AGROCONNECT_SEED_EQUIPMENT" default:"true"`
}

type PresenceConfig struct {
	Window       time.Duration `envconfig:"AGROCONNECT_PRESENCE_WINDOW" default:"5m"`
	PollInterval time.Duration `envconfig:"AGROCONNECT_PRESENCE_POLL_INTERVAL" default:"2s"`
}

type ChatConfig struct {
	MaxMessageLength int           `envconfig:"AGROCONNECT_CHAT_MAX_MESSAGE_LENGTH" default:"2000"`
	Retention        time.Duration `envconfig:"AGROCONNECT_CHAT_RETENTION" default:"720h"`
	MaxMessages      int           `envconfig:"AGROCONNECT_CHAT_MAX_MESSAGES" default:"5000"`
}

type CatalogConfig struct {
	ProductCacheTTL time.Duration `envconfig:"AGROCONNECT_PRODUCT_CACHE_TTL" default:"1m"`
}

type RealtimeConfig struct {
	SendBuffer int           `envconfig:"AGROCONNECT_REALTIME_SEND_BUFFER" default:"64"`
	WriteWait  time.Duration `envconfig:"AGROCONNECT_REALTIME_WRITE_WAIT" default:"10s"`
	PongWait   time.Duration `envconfig:"AGROCONNECT_REALTIME_PONG_WAIT" default:"60s"`
	RelayRedis bool          `envconfig:"AGROCONNECT_REALTIME_RELAY_REDIS" default:"true"`
}

// PingPeriod is how often the server pings a websocket peer; it must stay below PongWait.
func (r RealtimeConfig) PingPeriod() time.Duration {
	return (r.PongWait * 9) / 10
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"AGROCONNECT_CRON_INTERVAL" default:"1m"`
	JobTimeout time.Duration `envconfig:"AGROCONNECT_CRON_JOB_TIMEOUT" default:"30s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"AGROCONNECT_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) validateDriver() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DBDriverPostgres, DBDriverSQLite:
		db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
