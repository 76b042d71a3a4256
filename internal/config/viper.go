// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "TRANSFER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Generation struct {
		Enabled           bool    `mapstructure:"enabled" yaml:"enabled"`
		Provider          string  `mapstructure:"provider" yaml:"provider"`
		Model             string  `mapstructure:"model" yaml:"model"`
		TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RequestsPerMinute int     `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		Temperature       float32 `mapstructure:"temperature" yaml:"temperature"`
		APIKey            string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"generation" yaml:"generation"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Input struct {
		MaxTextLength int `mapstructure:"max_text_length" yaml:"max_text_length"`
	} `mapstructure:"input" yaml:"input"`

	Batch struct {
		Workers  int `mapstructure:"workers" yaml:"workers"`
		MaxItems int `mapstructure:"max_items" yaml:"max_items"`
	} `mapstructure:"batch" yaml:"batch"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Store struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Security struct {
		MaskSensitiveData bool   `mapstructure:"mask_sensitive_data" yaml:"mask_sensitive_data"`
		EncryptionKey     string `mapstructure:"encryption_key" yaml:"-"`
	} `mapstructure:"security" yaml:"security"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`
}

// GenerationTimeout returns the per-call generation timeout.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from defaults, an optional config file and the
// environment. An empty configFile searches the standard locations.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.transfer-assistant")
		v.AddConfigPath(".transfer-assistant")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 5. Secrets come from unprefixed variables
	if err := v.BindEnv("generation.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("security.encryption_key", EnvPrefix+"_ENCRYPTION_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind %s_ENCRYPTION_KEY: %w", EnvPrefix, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("generation.enabled", false)
	v.SetDefault("generation.provider", "gemini")
	v.SetDefault("generation.model", "gemini-2.0-flash")
	v.SetDefault("generation.timeout_seconds", 30)
	v.SetDefault("generation.requests_per_minute", 10)
	v.SetDefault("generation.temperature", 0.1)
	v.SetDefault("generation.api_key", "")

	v.SetDefault("rules.file", "")
	v.SetDefault("input.max_text_length", 10000)

	v.SetDefault("batch.workers", 1)
	v.SetDefault("batch.max_items", 100)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "data/transactions.db")

	v.SetDefault("security.mask_sensitive_data", true)
	v.SetDefault("security.encryption_key", "")

	v.SetDefault("server.addr", ":8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Generation.Enabled {
		if config.Generation.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when generation is enabled")
		}

		switch config.Generation.Provider {
		case "gemini", "genai":
		default:
			return fmt.Errorf("generation.provider must be 'gemini' or 'genai', got: %s", config.Generation.Provider)
		}

		if config.Generation.RequestsPerMinute < 0 || config.Generation.RequestsPerMinute > 1000 {
			return fmt.Errorf("generation.requests_per_minute must be between 0 and 1000, got: %d", config.Generation.RequestsPerMinute)
		}
	}

	if config.Generation.TimeoutSeconds < 1 || config.Generation.TimeoutSeconds > 300 {
		return fmt.Errorf("generation.timeout_seconds must be between 1 and 300, got: %d", config.Generation.TimeoutSeconds)
	}

	if config.Input.MaxTextLength < 1 {
		return fmt.Errorf("input.max_text_length must be positive, got: %d", config.Input.MaxTextLength)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	if config.Batch.MaxItems < 1 {
		return fmt.Errorf("batch.max_items must be positive, got: %d", config.Batch.MaxItems)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Store.Enabled && config.Store.Path == "" {
		return fmt.Errorf("store.path required when the store is enabled")
	}

	return nil
}
