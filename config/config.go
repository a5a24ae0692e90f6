package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog source kinds
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction reports whether internal error details must be hidden from clients.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// CatalogConfig selects and configures the catalog source
type CatalogConfig struct {
	Source      string        `mapstructure:"source"` // "file", "http" or "postgres"
	Path        string        `mapstructure:"path"`
	URL         string        `mapstructure:"url"`
	DatabaseURL string        `mapstructure:"database_url"`
	Table       string        `mapstructure:"table"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int           `mapstructure:"per_ip"`
	Window time.Duration `mapstructure:"window"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/catalogcompare/")

	// CATALOGCOMPARE_CATALOG_SOURCE -> catalog.source
	v.SetEnvPrefix("CATALOGCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:3001"})

	// Catalog defaults; url and database_url are registered so env vars can reach them
	v.SetDefault("catalog.source", SourceFile)
	v.SetDefault("catalog.path", "data/products.json")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.table", "products")
	v.SetDefault("catalog.timeout", "10s")

	// 100 requests per 15 minutes per client
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.window", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.enabled", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Catalog.Source {
	case SourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	case SourceHTTP:
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog url is required when catalog source is 'http' (set CATALOGCOMPARE_CATALOG_URL)")
		}
	case SourcePostgres:
		if config.Catalog.DatabaseURL == "" {
			return fmt.Errorf("database url is required when catalog source is 'postgres' (set CATALOGCOMPARE_CATALOG_DATABASE_URL)")
		}
		if config.Catalog.Table == "" {
			return fmt.Errorf("catalog table is required when catalog source is 'postgres'")
		}
	default:
		return fmt.Errorf("catalog source must be 'file', 'http' or 'postgres', got: %s", config.Catalog.Source)
	}

	if config.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive, got: %s", config.Catalog.Timeout)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}
	if config.RateLimit.Window <= 0 {
		return fmt.Errorf("ratelimit window must be positive, got: %s", config.RateLimit.Window)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
