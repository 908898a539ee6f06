// Package config loads the netdesign configuration from defaults, YAML files
// and environment variables, and reloads it when the files change.
package config

import (
	"strings"

	domainconfig "netdesign/domain/config"
	"netdesign/pkg/utils"
)

// Environment is a deployment environment
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Test        Environment = "test"
)

// ParseEnvironment maps a free-form name to an Environment, defaulting to
// development
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	case "stage", "staging":
		return Staging
	case "test":
		return Test
	default:
		return Development
	}
}

// Config is the complete application configuration
type Config struct {
	Environment Environment               `yaml:"environment" validate:"required,oneof=development staging production test"`
	History     History                   `yaml:"history"`
	Logging     Logging                   `yaml:"logging"`
	Metrics     Metrics                   `yaml:"metrics"`
	Tracing     Tracing                   `yaml:"tracing"`
	Limits      domainconfig.DomainConfig `yaml:"limits"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// History configures the undo/redo timeline. MaxSize is fixed once the
// timeline is built; reloads do not change it.
type History struct {
	MaxSize      int    `yaml:"max_size" validate:"gte=0"`
	BackupSource string `yaml:"backup_source" validate:"omitempty,oneof=live destination"`
}

// Logging configures zap
type Logging struct {
	Level  string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"required,oneof=json console"`
}

// Metrics configures the Prometheus collector
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
}

// Tracing configures OpenTelemetry spans. Without an endpoint spans are
// created but not exported.
type Tracing struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string  `yaml:"service_name" validate:"required"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// Default returns the configuration used when nothing else is set
func Default(env Environment) *Config {
	cfg := &Config{
		Environment: env,
		History: History{
			MaxSize:      10,
			BackupSource: "live",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "netdesign",
		},
		Tracing: Tracing{
			ServiceName: "netdesign",
			SampleRatio: 1,
		},
		Limits: *domainconfig.LoadDomainConfig(string(env)),
	}
	if env == Development || env == Test {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	return cfg
}

// Validate checks the configuration
func (c *Config) Validate() error {
	return utils.ValidateStruct(c)
}

// HistoryEnabled reports whether the configured size records anything
func (c *Config) HistoryEnabled() bool {
	return c.History.MaxSize > 1
}
