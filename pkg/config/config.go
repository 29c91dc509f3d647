package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "emporium"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "EMPORIUM_DB_DSN"
	EnvDBHost = "EMPORIUM_DB_HOST"
	EnvDBUser = "EMPORIUM_DB_USER"
	EnvDBName = "EMPORIUM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Catalog       CatalogConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string   `envconfig:"EMPORIUM_APP_ENV" required:"true"`
	Port         string   `envconfig:"EMPORIUM_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"EMPORIUM_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"EMPORIUM_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"EMPORIUM_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"EMPORIUM_DB_DSN"`

	LegacyHost     string `envconfig:"EMPORIUM_DB_HOST"`
	LegacyPort     int    `envconfig:"EMPORIUM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EMPORIUM_DB_USER"`
	LegacyPassword string `envconfig:"EMPORIUM_DB_PASSWORD"`
	LegacyName     string `envconfig:"EMPORIUM_DB_NAME"`
	LegacySSLMode  string `envconfig:"EMPORIUM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EMPORIUM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EMPORIUM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EMPORIUM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EMPORIUM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EMPORIUM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EMPORIUM_REDIS_ADDR"`
	Password     string        `envconfig:"EMPORIUM_REDIS_PASSWORD"`
	DB           int           `envconfig:"EMPORIUM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EMPORIUM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EMPORIUM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EMPORIUM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EMPORIUM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EMPORIUM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"EMPORIUM_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"EMPORIUM_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"EMPORIUM_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"EMPORIUM_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EMPORIUM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EMPORIUM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EMPORIUM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EMPORIUM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EMPORIUM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"EMPORIUM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"EMPORIUM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"EMPORIUM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"EMPORIUM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"EMPORIUM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"EMPORIUM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	RetentionDays int `envconfig:"EMPORIUM_CART_RETENTION_DAYS" default:"5"`
}

// Retention returns how long an idle cart survives before the expiry job
// removes it.
func (c CartConfig) Retention() time.Duration {
	days := c.RetentionDays
	if days <= 0 {
		days = 5
	}
	return time.Duration(days) * 24 * time.Hour
}

type CatalogConfig struct {
	DetailCacheTTL time.Duration `envconfig:"EMPORIUM_CATALOG_DETAIL_CACHE_TTL" default:"5m"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"EMPORIUM_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"EMPORIUM_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EMPORIUM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
