package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"blackjack-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the blackjack server
type Config struct {
	loaded         bool
	Addr           string `yaml:"addr" envconfig:"addr"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Log            struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"` // text or json
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Table struct {
		Seats          int    `yaml:"seats" envconfig:"seats"`
		DealerStandsOn int    `yaml:"dealerStandsOn" envconfig:"dealer_stands_on"`
		DefaultTable   string `yaml:"defaultTable" envconfig:"default_table"`
		Seed           int64  `yaml:"seed" envconfig:"seed"`
	} `yaml:"table"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	cfg := Config{
		Addr:           ":5000",
		MigrationsPath: "./sql",
	}

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Table.Seats = 7
	cfg.Table.DealerStandsOn = 17
	cfg.Table.DefaultTable = "main"

	return cfg
}

// LogFormatter returns the logrus formatter for the configured log format
func (c Config) LogFormatter() (logrus.Formatter, error) {
	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		return &logrus.TextFormatter{}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	}

	return nil, fmt.Errorf("unknown log format: %s", c.Log.Format)
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The config file is optional, anything it doesn't set keeps its default
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("BJ_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return fmt.Errorf("could not decode %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process("bj", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
