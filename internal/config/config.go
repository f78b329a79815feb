// Package config loads settings for the statekit demo program.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds demo configuration.
type Config struct {
	State   StateConfig
	Greeter GreeterConfig
}

// StateConfig holds persistence settings.
type StateConfig struct {
	Dir string
}

// GreeterConfig holds settings for the demo's delayed greeting operation.
type GreeterConfig struct {
	DelayMS  int `mapstructure:"delay_ms"`
	Template string
}

// Load reads configuration from file and env. Env var overrides use prefix STATEKIT_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("state.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "statekit"))
	v.SetDefault("greeter.delay_ms", 600)
	v.SetDefault("greeter.template", "Hello, %s")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("STATEKIT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "statekit"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STATEKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
