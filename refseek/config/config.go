package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	internal "github.com/Dando18/refseek/refseek"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Build BuildConfig `mapstructure:"build"`
	Query QueryConfig `mapstructure:"query"`
}

// BuildConfig stores index construction settings.
type BuildConfig struct {
	// Workers bounds the goroutine count for the normalizer and the
	// parallel prefix-table build.
	Workers int `mapstructure:"workers"`
	// PrefixChunks is the number of contiguous suffix-array chunks the
	// parallel prefix-table build partitions into.
	PrefixChunks int `mapstructure:"prefixChunks"`
}

// QueryConfig stores query-time settings.
type QueryConfig struct {
	Workers int    `mapstructure:"workers"`
	Mode    string `mapstructure:"mode"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("build.workers", runtime.NumCPU())
	viper.SetDefault("build.prefixChunks", internal.DefaultPrefixChunks)
	viper.SetDefault("query.workers", runtime.NumCPU())
	viper.SetDefault("query.mode", internal.DefaultQueryMode)

	viper.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; defaults and env vars apply.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if AppConfig.Build.Workers < 1 {
		AppConfig.Build.Workers = 1
	}
	if AppConfig.Build.PrefixChunks < 1 {
		AppConfig.Build.PrefixChunks = 1
	}
	if AppConfig.Query.Workers < 1 {
		AppConfig.Query.Workers = 1
	}

	return &AppConfig, nil
}
