package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ORDERLENS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv            = "ORDERLENS_APP_ENV"
	EnvPort              = "ORDERLENS_APP_PORT"
	EnvLogLevel          = "ORDERLENS_LOG_LEVEL"
	EnvDefaultGrowthRate = "ORDERLENS_DEFAULT_GROWTH_RATE"
	EnvHorizon           = "ORDERLENS_PROJECTION_HORIZON"
	EnvMaxUploadMB       = "ORDERLENS_MAX_UPLOAD_MB"
	EnvCacheEnabled      = "ORDERLENS_CACHE_ENABLED"
	EnvCacheTTL          = "ORDERLENS_CACHE_TTL"
	EnvRedisURL          = "ORDERLENS_REDIS_URL"
	EnvRedisAddr         = "ORDERLENS_REDIS_ADDR"
	EnvCORSOrigins       = "ORDERLENS_CORS_ALLOWED_ORIGINS"
)

type Config struct {
	App       AppConfig
	Analytics AnalyticsConfig
	Ingest    IngestConfig
	Cache     CacheConfig
	Redis     RedisConfig
	CORS      CORSConfig
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

type AppConfig struct {
	Env          string `envconfig:"ORDERLENS_APP_ENV" default:"dev"`
	Port         string `envconfig:"ORDERLENS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORDERLENS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERLENS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type AnalyticsConfig struct {
	DefaultGrowthRate float64 `envconfig:"ORDERLENS_DEFAULT_GROWTH_RATE" default:"1"`
	Horizon           int     `envconfig:"ORDERLENS_PROJECTION_HORIZON" default:"3"`
	TopSKUs           int     `envconfig:"ORDERLENS_TOP_SKUS" default:"5"`
	ComparisonSKUs    int     `envconfig:"ORDERLENS_COMPARISON_SKUS" default:"10"`
}

type IngestConfig struct {
	MaxUploadMB int `envconfig:"ORDERLENS_MAX_UPLOAD_MB" default:"20"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (i IngestConfig) MaxUploadBytes() int64 {
	if i.MaxUploadMB <= 0 {
		return 0
	}
	return int64(i.MaxUploadMB) << 20
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ORDERLENS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type CacheConfig struct {
	Enabled bool          `envconfig:"ORDERLENS_CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"ORDERLENS_CACHE_TTL" default:"15m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERLENS_REDIS_URL"`
	Address      string        `envconfig:"ORDERLENS_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERLENS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERLENS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERLENS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERLENS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERLENS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERLENS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERLENS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (c *Config) validate() error {
	if c.Analytics.DefaultGrowthRate <= 0 {
		return fmt.Errorf("%s must be positive", EnvDefaultGrowthRate)
	}
	if c.Analytics.Horizon < 1 || c.Analytics.Horizon > 12 {
		return fmt.Errorf("%s must be between 1 and 12", EnvHorizon)
	}
	if c.Analytics.TopSKUs <= 0 || c.Analytics.ComparisonSKUs <= 0 {
		return fmt.Errorf("top sku limits must be positive")
	}
	if c.Cache.Enabled && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("either %s or %s is required when %s is set", EnvRedisURL, EnvRedisAddr, EnvCacheEnabled)
	}
	return nil
}
