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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Ledger       LedgerConfig
	Cron         CronConfig
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
	Env          string `envconfig:"DAIRYDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"DAIRYDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DAIRYDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DAIRYDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DAIRYDESK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DAIRYDESK_DB_DSN"`
	Driver string `envconfig:"DAIRYDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DAIRYDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"DAIRYDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DAIRYDESK_DB_USER"`
	LegacyPassword string `envconfig:"DAIRYDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"DAIRYDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"DAIRYDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DAIRYDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DAIRYDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DAIRYDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DAIRYDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DAIRYDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DAIRYDESK_REDIS_ADDR"`
	Password     string        `envconfig:"DAIRYDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"DAIRYDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DAIRYDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DAIRYDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DAIRYDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DAIRYDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DAIRYDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DAIRYDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DAIRYDESK_AUTO_MIGRATE" default:"false"`
}

type LedgerConfig struct {
	// AuditRepair allows the nightly audit job to rewrite a vendor's
	// materialized balance when it no longer matches the entry history.
	AuditRepair bool `envconfig:"DAIRYDESK_LEDGER_AUDIT_REPAIR" default:"false"`
	// BulkPaymentMaxItems bounds a single bulk payment submission.
	BulkPaymentMaxItems int `envconfig:"DAIRYDESK_LEDGER_BULK_MAX_ITEMS" default:"100"`
	// IdempotencyTTL is how long ledger write responses are replayable.
	IdempotencyTTL time.Duration `envconfig:"DAIRYDESK_LEDGER_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"DAIRYDESK_CRON_INTERVAL" default:"24h"`
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
