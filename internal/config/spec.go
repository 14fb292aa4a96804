package config

import "time"

// Config is the root configuration for hireflow-cli.
type Config struct {
	Services ServicesSection `koanf:"services" yaml:"services"`
	HTTP     HTTPSection     `koanf:"http" yaml:"http"`
	Session  SessionSection  `koanf:"session" yaml:"session"`
	Cache    CacheSection    `koanf:"cache" yaml:"cache"`
	Log      LogSection      `koanf:"log" yaml:"log"`
	Output   OutputSection   `koanf:"output" yaml:"output"`
}

// ServicesSection holds the backend base URLs. A URL may carry a
// version prefix such as /api/v1.
type ServicesSection struct {
	User    string `koanf:"user" yaml:"user" validate:"required,http_url"`
	Profile string `koanf:"profile" yaml:"profile" validate:"required,http_url"`
	Job     string `koanf:"job" yaml:"job" validate:"required,http_url"`
}

// HTTPSection configures the service clients.
type HTTPSection struct {
	// Timeout is the per-request timeout in milliseconds. Empty or
	// non-numeric values mean the 10s default.
	Timeout string `koanf:"timeout" yaml:"timeout"`

	// RateLimit is requests per second per service. Zero disables it.
	RateLimit float64 `koanf:"ratelimit" yaml:"ratelimit" validate:"min=0"`
	Burst     int     `koanf:"burst" yaml:"burst" validate:"min=0"`

	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `koanf:"cafile" yaml:"cafile"`
}

// SessionSection configures where the session token lives.
type SessionSection struct {
	Dir    string `koanf:"dir" yaml:"dir"`
	Memory bool   `koanf:"memory" yaml:"memory"`
	Secret string `koanf:"secret" yaml:"secret"`
}

// CacheSection configures the query cache.
type CacheSection struct {
	Stale time.Duration `koanf:"stale" yaml:"stale" validate:"min=0"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=text json"`
}

// OutputSection configures command output.
type OutputSection struct {
	Format string `koanf:"format" yaml:"format" validate:"oneof=table json yaml"`
}
