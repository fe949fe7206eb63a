package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jravahfoods/storefront/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "JRAVAH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv           = "JRAVAH_APP_ENV"
	EnvPort             = "JRAVAH_APP_PORT"
	EnvLogLevel         = "JRAVAH_LOG_LEVEL"
	EnvStorageDriver    = "JRAVAH_STORAGE_DRIVER"
	EnvStorageDir       = "JRAVAH_STORAGE_DIR"
	EnvDBDSN            = "JRAVAH_DB_DSN"
	EnvRedisURL         = "JRAVAH_REDIS_URL"
	EnvRedisAddr        = "JRAVAH_REDIS_ADDR"
	EnvCatalogPath      = "JRAVAH_CATALOG_PATH"
	EnvWhatsAppPhone    = "JRAVAH_CHECKOUT_WHATSAPP_PHONE"
	EnvToastDuration    = "JRAVAH_CHECKOUT_TOAST_DURATION"
	EnvUseSQLite        = "JRAVAH_USE_SQLITE"
	EnvAutoMigrate      = "JRAVAH_AUTO_MIGRATE"
	EnvSessionCookieTTL = "JRAVAH_SESSION_COOKIE_TTL"
	EnvSessionMaxActive = "JRAVAH_SESSION_MAX_ACTIVE"
	EnvSessionIdleTTL   = "JRAVAH_SESSION_IDLE_TTL"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Checkout     CheckoutConfig
	Session      SessionConfig
	FeatureFlags FeatureFlagsConfig
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

func (c *Config) validate() error {
	driver, err := enums.ParseStorageDriver(strings.ToLower(strings.TrimSpace(c.Storage.Driver)))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvStorageDriver, err)
	}
	c.Storage.Driver = driver.String()

	switch driver {
	case enums.StorageDriverFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%s is required for the file driver", EnvStorageDir)
		}
	case enums.StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis driver", EnvRedisURL, EnvRedisAddr)
		}
	case enums.StorageDriverSQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the sql driver", EnvDBDSN)
		}
	}
	if c.Session.MaxActive <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionMaxActive)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionIdleTTL)
	}
	if c.Checkout.ToastDuration <= 0 {
		return fmt.Errorf("%s must be positive", EnvToastDuration)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"JRAVAH_APP_ENV" default:"dev"`
	Port         string `envconfig:"JRAVAH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"JRAVAH_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"JRAVAH_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"JRAVAH_LOG_WARN_STACK" default:"false"`

	// CORSOrigins lists the storefront origins allowed to call the API.
	CORSOrigins []string `envconfig:"JRAVAH_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects where cart documents are persisted.
type StorageConfig struct {
	Driver string `envconfig:"JRAVAH_STORAGE_DRIVER" default:"memory"`
	Dir    string `envconfig:"JRAVAH_STORAGE_DIR" default:"data/carts"`
	// CartKey is the base key every session's cart document is stored under.
	CartKey string `envconfig:"JRAVAH_STORAGE_CART_KEY" default:"jravahCart"`
	Watch   bool   `envconfig:"JRAVAH_STORAGE_WATCH" default:"true"`
}

type DBConfig struct {
	DSN    string `envconfig:"JRAVAH_DB_DSN"`
	Driver string `envconfig:"JRAVAH_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"JRAVAH_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"JRAVAH_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"JRAVAH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JRAVAH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JRAVAH_REDIS_URL"`
	Address      string        `envconfig:"JRAVAH_REDIS_ADDR"`
	Password     string        `envconfig:"JRAVAH_REDIS_PASSWORD"`
	DB           int           `envconfig:"JRAVAH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JRAVAH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JRAVAH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JRAVAH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JRAVAH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JRAVAH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CatalogConfig struct {
	// Path overrides the embedded product list with a build-time JSON export.
	Path string `envconfig:"JRAVAH_CATALOG_PATH"`
}

type CheckoutConfig struct {
	WhatsAppPhone string        `envconfig:"JRAVAH_CHECKOUT_WHATSAPP_PHONE" default:"918522084422"`
	ToastDuration time.Duration `envconfig:"JRAVAH_CHECKOUT_TOAST_DURATION" default:"1s"`
}

type SessionConfig struct {
	CookieTTL time.Duration `envconfig:"JRAVAH_SESSION_COOKIE_TTL" default:"720h"`
	// MaxActive and IdleTTL bound the cart engines held in memory; carts
	// themselves stay in storage for CookieTTL.
	MaxActive int           `envconfig:"JRAVAH_SESSION_MAX_ACTIVE" default:"10000"`
	IdleTTL   time.Duration `envconfig:"JRAVAH_SESSION_IDLE_TTL" default:"30m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JRAVAH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JRAVAH_AUTO_MIGRATE" default:"false"`
}
