package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Order    OrderConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate aggregates every broken setting instead of stopping at the first.
func (c *Config) Validate() error {
	var errs error
	if _, err := url.ParseRequestURI(c.Upstream.BaseURL); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("upstream base url: %w", err))
	}
	if c.Upstream.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("upstream timeout must be positive"))
	}
	if c.Order.PrepTime <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("order prep time must be positive"))
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"FINDLUNCH_APP_ENV" required:"true"`
	Port         string `envconfig:"FINDLUNCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FINDLUNCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FINDLUNCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the FindLunch backend the engine collaborates
// with: catalog, loyalty balances and order registration.
type UpstreamConfig struct {
	BaseURL       string        `envconfig:"FINDLUNCH_UPSTREAM_BASE_URL" required:"true"`
	Timeout       time.Duration `envconfig:"FINDLUNCH_UPSTREAM_TIMEOUT" default:"10s"`
	RetryAttempts uint64        `envconfig:"FINDLUNCH_UPSTREAM_RETRY_ATTEMPTS" default:"2"`
	RetryBackoff  time.Duration `envconfig:"FINDLUNCH_UPSTREAM_RETRY_BACKOFF" default:"500ms"`
}

type OrderConfig struct {
	PrepTime time.Duration `envconfig:"FINDLUNCH_ORDER_PREP_TIME" default:"10m"`
}
