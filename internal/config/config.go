// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/sources"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig            `mapstructure:"server"`
	Crawl   CrawlConfig             `mapstructure:"crawl"`
	Sources map[string]SourceConfig `mapstructure:"sources"`
	Storage StorageConfig           `mapstructure:"storage"`
	DB      DBConfig                `mapstructure:"db"`
	PubSub  PubSubConfig            `mapstructure:"pubsub"`
	Logging LoggingConfig           `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlConfig governs run-wide crawl behavior. RateLimitSeconds and
// TimeoutSeconds override every source when set above zero.
type CrawlConfig struct {
	RateLimitSeconds float64 `mapstructure:"rate_limit_seconds"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	MaxRetries       int     `mapstructure:"max_retries"`
	UserAgent        string  `mapstructure:"user_agent"`
}

// SourceConfig overrides per-source crawl settings.
type SourceConfig struct {
	BaseURL          string            `mapstructure:"base_url"`
	RateLimitSeconds float64           `mapstructure:"rate_limit_seconds"`
	TimeoutSeconds   int               `mapstructure:"timeout_seconds"`
	MaxRetries       int               `mapstructure:"max_retries"`
	VerifySSL        *bool             `mapstructure:"verify_ssl"`
	Headers          map[string]string `mapstructure:"headers"`
	MockFile         string            `mapstructure:"mock_file"`
}

// StorageConfig sets the raw payload archive destination.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	LocalDir  string `mapstructure:"local_dir"`
	Prefix    string `mapstructure:"prefix"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	EntityTable string `mapstructure:"entity_table"`
}

// PubSubConfig holds metadata for run summary notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig sets the zap logger level and mode.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SANCTIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawl.rate_limit_seconds", 0)
	v.SetDefault("crawl.timeout_seconds", 0)
	v.SetDefault("crawl.max_retries", 3)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "data")
	v.SetDefault("storage.prefix", "runs")
	v.SetDefault("db.entity_table", "sanction_entities")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawl.MaxRetries < 0 {
		return fmt.Errorf("crawl.max_retries must be >= 0")
	}
	switch c.Storage.Backend {
	case "local", "memory":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("storage.gcs_bucket must be set when storage.backend is gcs")
		}
	default:
		return fmt.Errorf("storage.backend must be one of local, memory, gcs")
	}
	for name := range c.Sources {
		if _, err := sources.DefaultConfig(name); err != nil {
			return fmt.Errorf("sources.%s: %w", name, err)
		}
	}
	return nil
}

// SourceCrawlerConfig resolves the effective crawler configuration for
// one source: registry defaults, then run-wide overrides, then the
// source's own section.
func (c Config) SourceCrawlerConfig(name string) (crawler.Config, error) {
	cfg, err := sources.DefaultConfig(name)
	if err != nil {
		return crawler.Config{}, err
	}
	if c.Crawl.RateLimitSeconds > 0 {
		cfg.RateLimit = time.Duration(c.Crawl.RateLimitSeconds * float64(time.Second))
	}
	if c.Crawl.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.Crawl.TimeoutSeconds) * time.Second
	}
	if c.Crawl.MaxRetries > 0 {
		cfg.MaxRetries = c.Crawl.MaxRetries
	}
	if c.Crawl.UserAgent != "" {
		cfg.UserAgent = c.Crawl.UserAgent
	}

	override, ok := c.Sources[name]
	if !ok {
		return cfg, nil
	}
	if override.BaseURL != "" {
		cfg.BaseURL = override.BaseURL
	}
	if override.RateLimitSeconds > 0 {
		cfg.RateLimit = time.Duration(override.RateLimitSeconds * float64(time.Second))
	}
	if override.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(override.TimeoutSeconds) * time.Second
	}
	if override.MaxRetries > 0 {
		cfg.MaxRetries = override.MaxRetries
	}
	if override.VerifySSL != nil {
		cfg.VerifySSL = *override.VerifySSL
	}
	if len(override.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(override.Headers))
		}
		for k, val := range override.Headers {
			cfg.Headers[k] = val
		}
	}
	if override.MockFile != "" {
		if cfg.CustomSettings == nil {
			cfg.CustomSettings = make(map[string]any, 1)
		}
		cfg.CustomSettings["mock_file"] = override.MockFile
	}
	return cfg, nil
}
