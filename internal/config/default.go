package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultUserURL    = "http://localhost:8081/api/v1"
	DefaultProfileURL = "http://localhost:8082/api/v1"
	DefaultJobURL     = "http://localhost:8083/api/v1"

	DefaultTimeout    = "10000"
	DefaultStaleTime  = 30 * time.Second
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultOutput     = "table"
	DefaultDotenvFile = ".env"
)

// HomeDir returns the per-user directory for hireflow-cli state.
func HomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hireflow"
	}
	return filepath.Join(homeDir, ".hireflow")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Services: ServicesSection{
			User:    DefaultUserURL,
			Profile: DefaultProfileURL,
			Job:     DefaultJobURL,
		},
		HTTP: HTTPSection{
			Timeout: DefaultTimeout,
		},
		Session: SessionSection{
			Dir: filepath.Join(HomeDir(), "session"),
		},
		Cache: CacheSection{
			Stale: DefaultStaleTime,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputSection{
			Format: DefaultOutput,
		},
	}
}
