package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"copyhelper-cli/internal/interfaces"

	"github.com/spf13/viper"
)

// Manager implements the ConfigManager interface
type Manager struct {
	v     *viper.Viper
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("COPYHELPER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	return &Manager{
		v:     v,
		flags: make(map[string]interface{}),
	}
}

// DefaultConfigDir returns ~/.config/copyhelper
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "copyhelper")
	}
	return filepath.Join(homeDir, ".config", "copyhelper")
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("target", "clipboard")
	v.SetDefault("template_file", "")
	v.SetDefault("log_file", "~/.config/copyhelper/copyhelper.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("interactive_default", false)
	v.SetDefault("notify", true)
	v.SetDefault("watch_debounce_ms", 200)
}

// Load loads configuration from the specified path
func (m *Manager) Load(path string) (*interfaces.Config, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	// A missing config file is not an error; defaults and env still apply
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return m.getConfigFromViper(), nil
	}

	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return m.getConfigFromViper(), nil
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Resolve applies precedence rules (flags > env > config > defaults)
func (m *Manager) Resolve() (*interfaces.Config, error) {
	config := m.getConfigFromViper()

	m.applyFlagOverrides(config)

	return config, nil
}

// applyFlagOverrides applies flag values over the configuration
func (m *Manager) applyFlagOverrides(config *interfaces.Config) {
	if str, ok := m.stringFlag("target"); ok {
		config.Target = str
	}

	if str, ok := m.stringFlag("template_file"); ok {
		config.TemplateFile = expandPath(str)
	}

	if str, ok := m.stringFlag("log_file"); ok {
		config.LogFile = expandPath(str)
	}

	if str, ok := m.stringFlag("log_level"); ok {
		config.LogLevel = str
	}

	if val, exists := m.flags["notify"]; exists {
		if b, ok := val.(bool); ok {
			config.Notify = b
		}
	}

	if val, exists := m.flags["watch_debounce_ms"]; exists {
		if n, ok := val.(int); ok {
			config.WatchDebounceMs = n
		}
	}
}

func (m *Manager) stringFlag(key string) (string, bool) {
	val, exists := m.flags[key]
	if !exists || val == nil {
		return "", false
	}
	str, ok := val.(string)
	return str, ok && str != ""
}

// Validate validates the configuration values
func (m *Manager) Validate(config *interfaces.Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if !ValidTarget(config.Target) {
		return fmt.Errorf("invalid target: %s (must be 'clipboard', 'stdout', or 'file:/path')", config.Target)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(config.LogLevel)] {
		return fmt.Errorf("invalid log_level: %s (must be 'debug', 'info', 'warn' or 'error')", config.LogLevel)
	}

	if config.WatchDebounceMs < 0 {
		return fmt.Errorf("invalid watch_debounce_ms: %d (must not be negative)", config.WatchDebounceMs)
	}

	if config.TemplateFile != "" {
		if _, err := os.Stat(config.TemplateFile); err != nil {
			return fmt.Errorf("template_file is not readable: %s", config.TemplateFile)
		}
	}

	return nil
}

// ValidTarget reports whether target names a supported output destination
func ValidTarget(target string) bool {
	switch {
	case target == "clipboard", target == "stdout":
		return true
	case strings.HasPrefix(target, "file:"):
		return strings.TrimPrefix(target, "file:") != ""
	default:
		return false
	}
}

// getConfigFromViper converts viper configuration to Config struct
// This handles env > config > defaults precedence (flags are applied separately)
func (m *Manager) getConfigFromViper() *interfaces.Config {
	return &interfaces.Config{
		Target:             m.v.GetString("target"),
		TemplateFile:       expandPath(m.v.GetString("template_file")),
		LogFile:            expandPath(m.v.GetString("log_file")),
		LogLevel:           m.v.GetString("log_level"),
		InteractiveDefault: m.v.GetBool("interactive_default"),
		Notify:             m.v.GetBool("notify"),
		WatchDebounceMs:    m.v.GetInt("watch_debounce_ms"),
	}
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	return filepath.Join(homeDir, path[2:])
}
