// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environement variables.
type Config struct {
	Environement string        `mapstructure:"GO_ENV"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	ActorBuffer  int           `mapstructure:"ACTOR_BUFFER"`
	TxDelay      time.Duration `mapstructure:"TX_DELAY"`
	Workers      int           `mapstructure:"WORKERS"`
}

// Load read configuration from file or environment variables.
//
// A missing config file is not an error; the defaults below apply and the
// environment can still override every value.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("GO_ENV", "production")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ACTOR_BUFFER", 32)
	viper.SetDefault("TX_DELAY", time.Duration(0))
	viper.SetDefault("WORKERS", 0)

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
