package sidekick

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults match a stock local LM Studio instance.
const (
	DefaultHost             = "localhost"
	DefaultPort             = 1234
	DefaultRateLimitWindow  = 60 * time.Second
	DefaultRateLimitMax     = 30
	DefaultMaxContextTokens = 32000

	// RecommendedModel is the model the gateway suggests for sidekick work.
	RecommendedModel = "qwen2.5-coder-32b-instruct-q4_k_m"
)

// Config is the gateway configuration. It is read once at construction;
// there is no hot reload.
type Config struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	RateLimitWindow  time.Duration `yaml:"rate_limit_window"`
	RateLimitMax     int           `yaml:"rate_limit_max"`
	MaxContextTokens int           `yaml:"max_context_tokens"`
	Recommended      string        `yaml:"recommended_model"`
}

// DefaultConfig returns the configuration for a local LM Studio instance.
func DefaultConfig() Config {
	return Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		RateLimitWindow:  DefaultRateLimitWindow,
		RateLimitMax:     DefaultRateLimitMax,
		MaxContextTokens: DefaultMaxContextTokens,
		Recommended:      RecommendedModel,
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for anything unset:
//
//	LMSTUDIO_HOST            completion service host
//	LMSTUDIO_PORT            completion service port
//	RATE_LIMIT_WINDOW        admission window in seconds
//	RATE_LIMIT_MAX_REQUESTS  maximum admitted requests per window
//	MAX_CONTEXT_SIZE         maximum stored context size in estimated tokens
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("LMSTUDIO_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("LMSTUDIO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("sidekick: config: LMSTUDIO_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("sidekick: config: RATE_LIMIT_WINDOW: %w", err)
		}
		cfg.RateLimitWindow = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("sidekick: config: RATE_LIMIT_MAX_REQUESTS: %w", err)
		}
		cfg.RateLimitMax = n
	}
	if v := os.Getenv("MAX_CONTEXT_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("sidekick: config: MAX_CONTEXT_SIZE: %w", err)
		}
		cfg.MaxContextTokens = size
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file. Environment variables in
// the format ${VAR} are expanded before parsing, and unset fields keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sidekick: read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("sidekick: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for required fields and consistency.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("sidekick: config: host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("sidekick: config: invalid port %d", c.Port)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("sidekick: config: rate limit window must be positive")
	}
	if c.RateLimitMax < 1 {
		return fmt.Errorf("sidekick: config: rate limit max must be at least 1")
	}
	if c.MaxContextTokens < 1 {
		return fmt.Errorf("sidekick: config: max context tokens must be at least 1")
	}
	return nil
}

// Addr returns the host:port of the completion service.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
