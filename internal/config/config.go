package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TTTC_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	pyserverURLEnv   = "PYSERVER_URL"
	pyserverKeyEnv   = "PYSERVER_API_KEY"
	pyserverModelEnv = "PYSERVER_MODEL"
	webhookURLEnv    = "STATUS_WEBHOOK_URL"
	logLevelEnv      = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	PyServer      PyServerConfig     `yaml:"pyserver"`
	Retry         RetryConfig        `yaml:"retry"`
	Notifications NotificationConfig `yaml:"notifications"`
	Report        ReportConfig       `yaml:"report"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes Postgres connection details for the report
// store. An empty DSN disables persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// PyServerConfig wires the external processing service. UserID is a
// correlation identifier forwarded opaquely as a header.
type PyServerConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	UserID  string `yaml:"userId"`
}

// RetryConfig shapes the retry engine for stage calls.
type RetryConfig struct {
	Retries          int           `yaml:"retries"`
	Factor           float64       `yaml:"factor"`
	MinDelay         time.Duration `yaml:"minDelay"`
	MaxDelay         time.Duration `yaml:"maxDelay"`
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// NotificationConfig encapsulates outbound status channels.
type NotificationConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// ReportConfig carries authorship stamped into report metadata.
type ReportConfig struct {
	Author       string `yaml:"author"`
	Organization string `yaml:"organization"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(pyserverURLEnv); v != "" {
		c.PyServer.BaseURL = v
	}
	if v := os.Getenv(pyserverKeyEnv); v != "" {
		c.PyServer.APIKey = v
	}
	if v := os.Getenv(pyserverModelEnv); v != "" {
		c.PyServer.Model = v
	}
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Notifications.WebhookURL = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.PyServer.BaseURL != "" {
		base.PyServer.BaseURL = override.PyServer.BaseURL
	}
	if override.PyServer.APIKey != "" {
		base.PyServer.APIKey = override.PyServer.APIKey
	}
	if override.PyServer.Model != "" {
		base.PyServer.Model = override.PyServer.Model
	}
	if override.PyServer.UserID != "" {
		base.PyServer.UserID = override.PyServer.UserID
	}

	if override.Retry.Retries > 0 {
		base.Retry.Retries = override.Retry.Retries
	}
	if override.Retry.Factor > 0 {
		base.Retry.Factor = override.Retry.Factor
	}
	if override.Retry.MinDelay > 0 {
		base.Retry.MinDelay = override.Retry.MinDelay
	}
	if override.Retry.MaxDelay > 0 {
		base.Retry.MaxDelay = override.Retry.MaxDelay
	}
	if override.Retry.OperationTimeout > 0 {
		base.Retry.OperationTimeout = override.Retry.OperationTimeout
	}

	if override.Notifications.WebhookURL != "" {
		base.Notifications.WebhookURL = override.Notifications.WebhookURL
	}

	if override.Report.Author != "" {
		base.Report.Author = override.Report.Author
	}
	if override.Report.Organization != "" {
		base.Report.Organization = override.Report.Organization
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{DSN: ""},
		PyServer: PyServerConfig{
			BaseURL: "http://localhost:8000",
			Model:   "gpt-4o-mini",
		},
		Retry: RetryConfig{
			Retries:          3,
			Factor:           2,
			MinDelay:         500 * time.Millisecond,
			MaxDelay:         8 * time.Second,
			OperationTimeout: 10 * time.Minute,
		},
		Report: ReportConfig{Author: "Talk to the City"},
	}
}
