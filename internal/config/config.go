// Package config provides configuration loading for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved application settings.
type Config struct {
	DatabasePath string
	Currency     string
	LogLevel     string
	LogFormat    string
}

// Load resolves configuration from Viper (config file plus TALLY_ env vars)
// with sensible defaults.
func Load() Config {
	cfg := Config{
		DatabasePath: defaultDatabasePath(),
		Currency:     "USD",
		LogLevel:     "info",
		LogFormat:    "console",
	}

	if v := viper.GetString("database.path"); v != "" {
		cfg.DatabasePath = ExpandPath(v)
	}
	if v := viper.GetString("currency"); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.LogFormat = v
	}
	return cfg
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tally.db"
	}
	return filepath.Join(home, ".local", "share", "tally", "tally.db")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
