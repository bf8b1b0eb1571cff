// Package config loads the govctl configuration from a file, a .env file and GOVCTL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/compound-finance/comet-governance/types"
)

// Default addresses of the session contracts.
const (
	DefaultGovernor = "0x309a862bbC1A00e45506cB8A802D1ff10004c8C0"
	DefaultTimelock = "0x6d903f6003cca6255D85CcA4D3B5E5146dC33925"
	DefaultDataDir  = ".govctl"
)

// Config is the govctl configuration.
type Config struct {
	DataDir  string         `mapstructure:"data_dir" validate:"required"`
	LogLevel string         `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Governor string         `mapstructure:"governor" validate:"required,eth_addr"`
	Timelock TimelockConfig `mapstructure:"timelock"`
}

// TimelockConfig holds the timelock deployment parameters used by init.
type TimelockConfig struct {
	Address      string        `mapstructure:"address" validate:"required,eth_addr"`
	Delay        time.Duration `mapstructure:"delay"`
	GracePeriod  time.Duration `mapstructure:"grace_period"`
	MinimumDelay time.Duration `mapstructure:"minimum_delay"`
	MaximumDelay time.Duration `mapstructure:"maximum_delay"`
}

// GovernorAddress returns the configured governor address.
func (c *Config) GovernorAddress() common.Address {
	return common.HexToAddress(c.Governor)
}

// TimelockAddress returns the configured timelock address.
func (c *Config) TimelockAddress() common.Address {
	return common.HexToAddress(c.Timelock.Address)
}

// TimelockParams converts the timelock durations to a types.TimelockConfig.
func (c *Config) TimelockParams() types.TimelockConfig {
	return types.TimelockConfig{
		Delay:        types.NewDuration(c.Timelock.Delay),
		GracePeriod:  types.NewDuration(c.Timelock.GracePeriod),
		MinimumDelay: types.NewDuration(c.Timelock.MinimumDelay),
		MaximumDelay: types.NewDuration(c.Timelock.MaximumDelay),
	}
}

// Validate checks the struct tags and the timelock parameters.
func (c *Config) Validate() error {
	if err := types.NewValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", types.ErrInvalidConfiguration, err)
	}

	return c.TimelockParams().Validate()
}

var (
	// envBindings maps config keys to the environment variables that can provide them.
	envBindings = map[string][]string{
		"data_dir":               {"GOVCTL_DATA_DIR"},
		"log_level":              {"GOVCTL_LOG_LEVEL"},
		"governor":               {"GOVCTL_GOVERNOR"},
		"timelock.address":       {"GOVCTL_TIMELOCK"},
		"timelock.delay":         {"GOVCTL_TIMELOCK_DELAY"},
		"timelock.grace_period":  {"GOVCTL_TIMELOCK_GRACE_PERIOD"},
		"timelock.minimum_delay": {"GOVCTL_TIMELOCK_MINIMUM_DELAY"},
		"timelock.maximum_delay": {"GOVCTL_TIMELOCK_MAXIMUM_DELAY"},
	}
)

// Load reads the config file at filePath when it exists, then applies environment overrides.
// Variables from a .env file in the working directory are loaded first and never override
// variables already set in the environment. An empty filePath skips the file.
func Load(filePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := newViper()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", filePath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := types.DefaultTimelockConfig()

	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("governor", DefaultGovernor)
	v.SetDefault("timelock.address", DefaultTimelock)
	v.SetDefault("timelock.delay", defaults.Delay.Duration)
	v.SetDefault("timelock.grace_period", defaults.GracePeriod.Duration)
	v.SetDefault("timelock.minimum_delay", defaults.MinimumDelay.Duration)
	v.SetDefault("timelock.maximum_delay", defaults.MaximumDelay.Duration)

	return v
}

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
