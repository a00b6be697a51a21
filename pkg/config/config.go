// Package config loads server settings from flags, environment, and an
// optional config file, in that precedence order.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Addr          string        `mapstructure:"addr"`
	LogLevel      string        `mapstructure:"log-level"`
	OpenAIAPIKey  string        `mapstructure:"openai-api-key"`
	Model         string        `mapstructure:"model"`
	SystemPrompt  string        `mapstructure:"system-prompt"`
	MaxIterations int           `mapstructure:"max-iterations"`
	UndoTTL       time.Duration `mapstructure:"undo-ttl"`
}

// Load reads configuration. Environment variables use the REPCOACH_
// prefix with dashes mapped to underscores (REPCOACH_OPENAI_API_KEY).
// configFile may be empty, in which case repcoach.yaml is looked up in
// the working directory and is optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8088")
	v.SetDefault("log-level", "info")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("max-iterations", 4)
	v.SetDefault("undo-ttl", 5*time.Minute)
	// Keys without a meaningful default still need one registered, or
	// viper's Unmarshal will not see their environment variables.
	v.SetDefault("openai-api-key", "")
	v.SetDefault("system-prompt", "")

	v.SetEnvPrefix("REPCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file %s", configFile)
		}
	} else {
		v.SetConfigName("repcoach")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "could not read config file")
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}
	return cfg, nil
}
