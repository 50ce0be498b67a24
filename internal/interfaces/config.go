package interfaces

// Config represents the application configuration
type Config struct {
	Target             string `toml:"target"`
	TemplateFile       string `toml:"template_file"`
	LogFile            string `toml:"log_file"`
	LogLevel           string `toml:"log_level"`
	InteractiveDefault bool   `toml:"interactive_default"`
	Notify             bool   `toml:"notify"`
	WatchDebounceMs    int    `toml:"watch_debounce_ms"`
}

// ConfigManager handles configuration loading and resolution
type ConfigManager interface {
	// Load loads configuration from the specified path
	Load(path string) (*Config, error)

	// Resolve applies precedence rules (flags > env > config > defaults)
	Resolve() (*Config, error)

	// Validate validates the configuration values
	Validate(config *Config) error
}
