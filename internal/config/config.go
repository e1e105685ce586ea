package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
type Config struct {
	Workers int     `mapstructure:"workers"`
	Storage Storage `mapstructure:"storage"`
	Retry   Retry   `mapstructure:"retry"`
}

// Storage selects and configures the output backend.
type Storage struct {
	Backend    string `mapstructure:"backend"` // "file" or "s3"
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Retry defines retry policy configuration for the S3 backend.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// setDefaults registers defaults so the tool runs without any config
// file at all.
func setDefaults() {
	viper.SetDefault("workers", 1)
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.use_ssl", false)
	viper.SetDefault("retry.attempts", 3)
	viper.SetDefault("retry.delay", 500*time.Millisecond)
	viper.SetDefault("retry.backoff", 2.0)
}

// MustLoad loads the configuration from ./config/config.yml if present,
// falling back to defaults and environment variables otherwise. It
// panics only on a malformed config file.
func MustLoad() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			zlog.Logger.Panic().Err(err).Msg("failed to read config")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msgf("failed to unmarshal config: %v", err)
	}

	return &cfg
}
