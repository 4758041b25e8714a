// Package config loads application settings from file, environment, and
// defaults via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/infohub-br/promoagent/internal/common"
)

// ProviderConfig holds one provider's settings. A provider without an API
// key is left out of the chain.
type ProviderConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// Config is the full application configuration.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Database   string `mapstructure:"database"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`

	Policy     string  `mapstructure:"policy"`
	RadiusKm   float64 `mapstructure:"radius_km"`
	MaxResults int     `mapstructure:"max_results"`

	ProviderCooldown time.Duration `mapstructure:"provider_cooldown"`

	Groq        ProviderConfig `mapstructure:"groq"`
	Gemini      ProviderConfig `mapstructure:"gemini"`
	OpenAI      ProviderConfig `mapstructure:"openai"`
	HuggingFace ProviderConfig `mapstructure:"huggingface"`
}

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database", "promoagent.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("policy", "hybrid")
	v.SetDefault("radius_km", 10.0)
	v.SetDefault("max_results", 5)

	v.SetDefault("provider_cooldown", 5*time.Minute)

	v.SetDefault("groq.requests_per_minute", 30)
	v.SetDefault("groq.timeout", 5*time.Second)
	v.SetDefault("gemini.requests_per_minute", 15)
	v.SetDefault("gemini.timeout", 8*time.Second)
	v.SetDefault("openai.requests_per_minute", 3)
	v.SetDefault("openai.timeout", 10*time.Second)
	v.SetDefault("huggingface.requests_per_minute", 100)
	v.SetDefault("huggingface.timeout", 15*time.Second)
}

// Load unmarshals and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the rest of the system cannot run with.
func (c *Config) Validate() error {
	switch c.Policy {
	case "hybrid", "rules_only":
	default:
		return fmt.Errorf("%w: policy must be hybrid or rules_only, got %q", common.ErrInvalidConfig, c.Policy)
	}
	if c.RadiusKm <= 0 {
		return fmt.Errorf("%w: radius_km must be positive", common.ErrInvalidConfig)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("%w: max_results must be positive", common.ErrInvalidConfig)
	}
	return nil
}
