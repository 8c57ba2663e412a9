package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataFile  = "tasks.json"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Backing task file
	DataFile string `toml:"data_file"`

	// Validate the task file against the JSON Schema on load
	ValidateSchema bool `toml:"validate_schema"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"validate_schema",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the string form of a configurable field.
func (c *Config) Value(field string) string {
	switch field {
	case "data_file":
		return c.DataFile
	case "validate_schema":
		return formatBool(c.ValidateSchema)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return formatBool(c.LogTimestamps)
	case "log_caller":
		return formatBool(c.LogCaller)
	}
	return ""
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
