package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	pkgerrors "netdesign/pkg/errors"
)

// Environment variables, highest priority source
const (
	EnvEnvironment    = "NETDESIGN_ENVIRONMENT"
	EnvHistoryMaxSize = "NETDESIGN_HISTORY_MAX_SIZE"
	EnvBackupSource   = "NETDESIGN_HISTORY_BACKUP_SOURCE"
	EnvLogLevel       = "NETDESIGN_LOG_LEVEL"
	EnvLogFormat      = "NETDESIGN_LOG_FORMAT"
	EnvMetricsEnabled = "NETDESIGN_METRICS_ENABLED"
	EnvTracingURL     = "NETDESIGN_TRACING_ENDPOINT"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	// basePath is the directory holding the configuration files
	basePath string

	// environment selects the environment-specific file
	environment Environment

	// getenv reads environment variables
	getenv func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "config"
	}
	return &Loader{
		basePath:    basePath,
		environment: env,
		getenv:      os.Getenv,
	}
}

// BasePath returns the configuration directory
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load loads configuration using a hierarchy of sources.
// The loading order (from lowest to highest priority):
//  1. Default values (in code)
//  2. Base configuration file (base.yaml)
//  3. Environment-specific file (e.g., production.yaml)
//  4. Local overrides file (local.yaml, development only)
//  5. Environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := Default(l.environment)
	cfg.LoadedFrom = []string{"defaults"}

	files := []string{"base", string(l.environment)}
	if l.environment == Development {
		files = append(files, "local")
	}
	for _, name := range files {
		path, err := l.loadFile(name, cfg)
		if err != nil {
			return nil, pkgerrors.NewConfigError(fmt.Sprintf("failed to load %s config", name), err)
		}
		if path != "" {
			cfg.LoadedFrom = append(cfg.LoadedFrom, path)
		}
	}

	if err := l.loadEnvironmentVariables(cfg); err != nil {
		return nil, err
	}
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.NewConfigError("configuration validation failed", err)
	}
	return cfg, nil
}

// loadFile decodes <name>.yaml or <name>.yml over cfg. It returns the path
// it read, or "" when neither exists.
func (l *Loader) loadFile(name string, cfg *Config) (string, error) {
	for _, ext := range []string{"yaml", "yml"} {
		path := filepath.Join(l.basePath, name+"."+ext)
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		defer file.Close()

		if err := decodeYAML(file, cfg); err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// loadEnvironmentVariables overlays environment variables on the configuration
func (l *Loader) loadEnvironmentVariables(cfg *Config) error {
	if val := l.getenv(EnvHistoryMaxSize); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return pkgerrors.NewConfigError(EnvHistoryMaxSize+" must be an integer", err)
		}
		cfg.History.MaxSize = n
	}
	if val := l.getenv(EnvBackupSource); val != "" {
		cfg.History.BackupSource = strings.ToLower(strings.TrimSpace(val))
	}
	if val := l.getenv(EnvLogLevel); val != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(val))
	}
	if val := l.getenv(EnvLogFormat); val != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(val))
	}
	if val := l.getenv(EnvMetricsEnabled); val != "" {
		on, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return pkgerrors.NewConfigError(EnvMetricsEnabled+" must be a boolean", err)
		}
		cfg.Metrics.Enabled = on
	}
	if val := l.getenv(EnvTracingURL); val != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	return nil
}

// Load reads the configuration from dir for the environment named by
// NETDESIGN_ENVIRONMENT
func Load(dir string) (*Config, error) {
	return NewLoader(dir, ParseEnvironment(os.Getenv(EnvEnvironment))).Load()
}
