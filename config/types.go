package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// APIConfig holds Transistor API connection details
type APIConfig struct {
	Key       string        `mapstructure:"key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
	// Workers bounds concurrent evaluation of large responses; 0 uses GOMAXPROCS
	Workers int `mapstructure:"workers"`
}

// UpdateConfig controls the self-update command
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
