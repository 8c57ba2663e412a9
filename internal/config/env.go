package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// loadDotEnv exports the variables in ./.env without overriding variables
// that are already set.
func loadDotEnv() error {
	if _, err := os.Stat(dotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(dotEnvFile)
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		sources[field] = SourceEnv
	}

	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.DataFile = v
		setEnv("data_file")
	}
	if v := os.Getenv("TODO_VALIDATE_SCHEMA"); v != "" {
		cfg.ValidateSchema = boolFromString(v)
		setEnv("validate_schema")
	}

	// Logging configuration
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODO_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODO_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
