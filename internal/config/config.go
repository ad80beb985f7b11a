// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port         int `mapstructure:"port"`
	PollInterval int `mapstructure:"poll_interval"`   // seconds between monitor cycles
	HealthProbe  int `mapstructure:"health_interval"` // seconds between store health probes
	Database     struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Dropbox struct {
		Root     string `mapstructure:"root"`
		Fallback string `mapstructure:"fallback"`
	} `mapstructure:"dropbox"`
	History struct {
		DefaultLimit int `mapstructure:"default_limit"`
	} `mapstructure:"history"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "SLTK_" prefix.
	// e.g., SLTK_DATABASE_PATH will override the `database.path` key.
	viper.SetEnvPrefix("SLTK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 44001)
	viper.SetDefault("poll_interval", 2)
	viper.SetDefault("health_interval", 30)
	viper.SetDefault("database.path", "./sltk.db")
	viper.SetDefault("dropbox.root", "/sltk/dropbox")
	viper.SetDefault("dropbox.fallback", "/sltk/dropbox/incoming")
	viper.SetDefault("history.default_limit", 50)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
