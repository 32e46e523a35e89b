package types

import "time"

const (
	DefaultBaseURL     = "https://context7.com/api/v1"
	DefaultSourceTag   = "libdocs-cli"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
)

// HTTPConfig holds shared HTTP settings for requests to the documentation service.
type HTTPConfig struct {
	// Timeout bounds a single attempt, not the whole call with retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "libdocs/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RetryConfig controls how transient failures are retried.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// BaseDelay is the first backoff wait; each later wait doubles it (default 1s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`
}

// ClientConfig holds everything the API client needs.
type ClientConfig struct {
	HTTPConfig  `yaml:",inline" mapstructure:",squash"`
	RetryConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the service root, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as a bearer credential. Never serialized.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// SourceTag is sent in the X-Context7-Source header.
	SourceTag string `json:"source_tag" yaml:"source_tag" mapstructure:"source_tag"`

	// RequestsPerSecond paces outgoing attempts. Zero disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c ClientConfig) WithDefaults() ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.SourceTag == "" {
		c.SourceTag = DefaultSourceTag
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = "libdocs/dev"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	return c
}

// CacheConfig holds settings for the caller-side documentation cache.
type CacheConfig struct {
	// Enabled turns the cache on for the docs command.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory holding the cache database.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// TTL is how long a cached response stays fresh (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Pretty switches to a human-readable console format.
	Pretty bool `json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// Config groups the whole CLI configuration as read from file, env, and flags.
type Config struct {
	Client ClientConfig `json:"client" yaml:"client" mapstructure:"client"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
