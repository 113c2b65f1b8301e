// Package config loads service settings from the environment and an optional
// config file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Eventual-Inc/pdfagent/pkg/agent"
	"github.com/Eventual-Inc/pdfagent/pkg/function"
	"github.com/Eventual-Inc/pdfagent/pkg/pdf"
)

const (
	KeyPort          = "port"
	KeyHandler       = "handler"
	KeyAPIKey        = "api_key"
	KeyGeminiAPIKey  = "gemini_api_key"
	KeyGeminiModel   = "gemini_model"
	KeyMaxIterations = "max_iterations"
	KeyFetchTimeout  = "fetch_timeout"
	KeyMaxPDFBytes   = "max_pdf_bytes"
	KeyRedisAddr     = "redis_addr"
	KeyCacheTTL      = "cache_ttl"
	KeyAWSRegion     = "aws_region"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
)

type Config struct {
	Port          int           `mapstructure:"port"`
	Handler       string        `mapstructure:"handler"`
	APIKey        string        `mapstructure:"api_key"`
	GeminiAPIKey  string        `mapstructure:"gemini_api_key"`
	GeminiModel   string        `mapstructure:"gemini_model"`
	MaxIterations int           `mapstructure:"max_iterations"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	MaxPDFBytes   int64         `mapstructure:"max_pdf_bytes"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	AWSRegion     string        `mapstructure:"aws_region"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
}

// SetDefaults registers every key so that AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyHandler, function.DefaultEntrypoint)
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyGeminiAPIKey, "")
	v.SetDefault(KeyGeminiModel, agent.DefaultModel)
	v.SetDefault(KeyMaxIterations, agent.DefaultMaxIterations)
	v.SetDefault(KeyFetchTimeout, pdf.DefaultFetchTimeout)
	v.SetDefault(KeyMaxPDFBytes, pdf.DefaultMaxBytes)
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyCacheTTL, time.Hour)
	v.SetDefault(KeyAWSRegion, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// Load reads configFile when set, then environment variables named after the
// upper-cased keys (PORT, API_KEY, GEMINI_API_KEY, ...).
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding environment into config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Handler == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxPDFBytes <= 0 {
		return fmt.Errorf("max_pdf_bytes must be positive, got %d", c.MaxPDFBytes)
	}
	return nil
}

// Addr is the listen address for the HTTP host.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// NewLogger builds the process logger from the log_level and log_format
// settings.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	switch c.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return log, nil
}
