package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args and applies the
// flags that were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	dataFile := cfg.DataFile
	validateSchema := cfg.ValidateSchema
	logLevel := cfg.LogLevel
	logFormat := cfg.LogFormat
	logTimestamps := cfg.LogTimestamps
	logCaller := cfg.LogCaller

	fs.StringVar(&dataFile, "file", dataFile, "Path to task file")
	fs.BoolVar(&validateSchema, "validate-schema", validateSchema, "Validate the task file against its JSON Schema on load")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"file":            "data_file",
		"validate-schema": "validate_schema",
		"log-level":       "log_level",
		"log-format":      "log_format",
		"log-timestamps":  "log_timestamps",
		"log-caller":      "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToSource[f.Name]
		if !ok {
			return
		}
		sources[field] = SourceFlag
		switch field {
		case "data_file":
			cfg.DataFile = dataFile
		case "validate_schema":
			cfg.ValidateSchema = validateSchema
		case "log_level":
			cfg.LogLevel = logLevel
		case "log_format":
			cfg.LogFormat = logFormat
		case "log_timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log_caller":
			cfg.LogCaller = logCaller
		}
	})

	return nil
}
