// Package config loads the jamhost YAML configuration with environment
// fallbacks for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// OpenAI-compatible provider
	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	Model         string `yaml:"model"`

	// Host agent
	Host HostConfig `yaml:"host"`

	// Friend agents the host connects to at startup
	Friends []string `yaml:"friends"`

	// Calendar window
	WindowDays int `yaml:"window_days"`

	// Session persistence
	Session SessionConfig `yaml:"session"`

	// Outbound rate limiting per friend agent
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Observability server (metrics + health); 0 disables it
	ObservabilityPort int `yaml:"observability_port"`
}

// HostConfig holds the host agent's identity and serving settings.
type HostConfig struct {
	Name            string `yaml:"name"`
	Port            int    `yaml:"port"`
	ThinkingMessage string `yaml:"thinking_message"`
	RemoteTimeout   int    `yaml:"remote_timeout_seconds"`
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	Store         string `yaml:"store"` // memory, redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLMinutes    int    `yaml:"ttl_minutes"`
}

// RateLimitConfig bounds outbound requests per friend agent.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Host.Name == "" {
		c.Host.Name = "Host Agent"
	}
	if c.Host.Port == 0 {
		c.Host.Port = 10001
	}
	if c.Host.ThinkingMessage == "" {
		c.Host.ThinkingMessage = "The host agent is thinking..."
	}
	if c.Host.RemoteTimeout == 0 {
		c.Host.RemoteTimeout = 30
	}
	if len(c.Friends) == 0 {
		c.Friends = []string{
			"http://localhost:10002",
			"http://localhost:10003",
			"http://localhost:10004",
		}
	}
	if c.WindowDays == 0 {
		c.WindowDays = 7
	}
	if c.Session.Store == "" {
		c.Session.Store = "memory"
	}
	if c.Session.RedisAddr == "" {
		c.Session.RedisAddr = "localhost:6379"
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 60
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
}

// Load secrets from environment if not in config
func (c *Config) applyEnv() {
	if c.OpenAIKey == "" {
		c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if c.Session.RedisPassword == "" {
		c.Session.RedisPassword = os.Getenv("REDIS_PASSWORD")
	}
}

// RemoteTimeout returns the per-friend request timeout as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Host.RemoteTimeout) * time.Second
}

// SessionTTL returns the session expiry as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("openai_key is required (or set OPENAI_API_KEY)")
	}
	if c.Session.Store != "memory" && c.Session.Store != "redis" {
		return fmt.Errorf("unknown session store: %q", c.Session.Store)
	}
	return nil
}
