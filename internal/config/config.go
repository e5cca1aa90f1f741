package config

import (
	"strings"

	"github.com/spf13/viper"

	ierr "github.com/kadepos/kadepos/internal/errors"
	"github.com/kadepos/kadepos/internal/types"
	"github.com/kadepos/kadepos/internal/validator"
)

// Configuration holds the full application configuration, loaded once at
// startup and treated as read-only afterwards.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

// PricingConfig carries engine-level defaults. The calculation order set here
// is used when a registry does not override it explicitly.
type PricingConfig struct {
	DefaultCalculationOrder types.CalculationOrder `mapstructure:"default_calculation_order"`

	// MaxTaxRatePercent is a sanity bound rejecting obviously broken tax
	// configurations at registration time.
	MaxTaxRatePercent float64 `mapstructure:"max_tax_rate_percent"`
}

// NewConfig loads configuration from ./config/config.yaml (optional) with
// KADEPOS_* environment variable overrides.
func NewConfig() (*Configuration, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("kadepos")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrValidation)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "local")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("pricing.default_calculation_order", string(types.CalculationOrderDiscountFirst))
	v.SetDefault("pricing.max_tax_rate_percent", 100.0)
}

// Validate checks structural tags and semantic constraints.
func (c *Configuration) Validate() error {
	if err := validator.ValidateRequest(c); err != nil {
		return err
	}
	if err := c.Pricing.DefaultCalculationOrder.Validate(); err != nil {
		return err
	}
	if c.Pricing.MaxTaxRatePercent <= 0 {
		return ierr.NewError("max_tax_rate_percent must be positive").
			WithHint("Pricing sanity bound must be a positive percentage").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests and scripts.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "local"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Pricing: PricingConfig{
			DefaultCalculationOrder: types.CalculationOrderDiscountFirst,
			MaxTaxRatePercent:       100.0,
		},
	}
}
