// Package config defines the application configuration, loaded from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/pranavchugh1/alveera/pkg/config"
)

// Config is the full application configuration.
type Config struct {
	// Environment is one of development, staging, production.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// APIBaseURL is the storefront backend root, without a trailing slash.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`

	// StateDir is where cart and session state persist when Redis is not
	// configured.
	StateDir string `env:"STATE_DIR" envDefault:".alveera"`

	// RedisAddr, when set, switches state persistence to Redis.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"720h"`

	HTTP    HTTPConfig
	Catalog CatalogConfig
	Tracing TracingConfig
}

// HTTPConfig tunes the outbound HTTP client and its circuit breaker.
type HTTPConfig struct {
	Timeout         time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	MaxRetries      int           `env:"HTTP_MAX_RETRIES" envDefault:"3"`
	RetryWaitMin    time.Duration `env:"HTTP_RETRY_WAIT_MIN" envDefault:"500ms"`
	RetryWaitMax    time.Duration `env:"HTTP_RETRY_WAIT_MAX" envDefault:"5s"`
	MaxConnsPerHost int           `env:"HTTP_MAX_CONNS_PER_HOST" envDefault:"20"`

	BreakerInterval     time.Duration `env:"HTTP_BREAKER_INTERVAL" envDefault:"60s"`
	BreakerTimeout      time.Duration `env:"HTTP_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64       `env:"HTTP_BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"HTTP_BREAKER_MIN_REQUESTS" envDefault:"5"`
}

// CatalogConfig tunes the product query client.
type CatalogConfig struct {
	PageSize       int           `env:"PAGE_SIZE" envDefault:"20"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"400ms"`
	RequestTimeout time.Duration `env:"CATALOG_REQUEST_TIMEOUT" envDefault:"15s"`
}

// TracingConfig configures the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled      bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate   float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := config.Load[Config]()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must not be negative")
	}
	return nil
}

// UseRedis reports whether state persistence should run on Redis.
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}
