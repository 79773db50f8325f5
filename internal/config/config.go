package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Valid configuration values
var validFormats = map[string]bool{
	"json": true, "yaml": true,
}

type Config struct {
	StoreDir string
	Format   string
	LogLevel string
	Timeout  time.Duration
	Retries  int
}

func New() *Config {
	return &Config{
		StoreDir: viper.GetString("store_dir"),
		Format:   viper.GetString("format"),
		LogLevel: viper.GetString("log_level"),
		Timeout:  viper.GetDuration("timeout"),
		Retries:  viper.GetInt("retries"),
	}
}

func (c *Config) Validate() error {
	if c.StoreDir == "" {
		return fmt.Errorf("store directory is required")
	}

	// Validate file format
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (valid: json, yaml)", c.Format)
	}

	// Validate log level
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}

	return nil
}
