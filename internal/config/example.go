package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by environment variables (TODO_*) or CLI flags

# Task file (relative to the working directory; supports ~ expansion)
data_file = "tasks.json"

# Validate the task file against the JSON Schema on load
validate_schema = false

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = false
log_caller = false
`
}
