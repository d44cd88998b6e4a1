package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"VIVAMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"VIVAMARKET_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"VIVAMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VIVAMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VIVAMARKET_DB_DSN"`
	Driver string `envconfig:"VIVAMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VIVAMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"VIVAMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VIVAMARKET_DB_USER"`
	LegacyPassword string `envconfig:"VIVAMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"VIVAMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"VIVAMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VIVAMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VIVAMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VIVAMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VIVAMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VIVAMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VIVAMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"VIVAMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"VIVAMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VIVAMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VIVAMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VIVAMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VIVAMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VIVAMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VIVAMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VIVAMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VIVAMARKET_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VIVAMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VIVAMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VIVAMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VIVAMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VIVAMARKET_ARGON_KEY_LEN" default:"32"`
}

// RateLimitConfig throttles all /api traffic per client address.
type RateLimitConfig struct {
	Window   time.Duration `envconfig:"VIVAMARKET_RATE_LIMIT_WINDOW" default:"15m"`
	Requests int           `envconfig:"VIVAMARKET_RATE_LIMIT_REQUESTS" default:"100"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VIVAMARKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VIVAMARKET_AUTO_MIGRATE" default:"false"`
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
