// Package config resolves the aicode configuration from a file, the
// environment and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/aicode/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name inside the config directory.
const FileName = "config.yaml"

// Environment variables read by ApplyEnv and Dir.
const (
	EnvConfig      = "AICODE_CONFIG"
	EnvBackendHost = "AICODE_BACKEND_HOST"
	EnvBackendPort = "AICODE_BACKEND_PORT"
	EnvTimeout     = "AICODE_TIMEOUT"
	EnvRetries     = "AICODE_RETRIES"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved client configuration.
type Config struct {
	Backend domain.BackendConfig `mapstructure:"backend" json:"backend" yaml:"backend"`
	// HistoryLimit is the number of resolved turns sent back as history.
	HistoryLimit int    `mapstructure:"history_limit" json:"history_limit" yaml:"history_limit"`
	LogLevel     string `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:  domain.DefaultBackendConfig(),
		LogLevel: "info",
	}
}

// Validate reports the first field out of range.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Backend.Host) == "":
		return fmt.Errorf("%w: backend.host is empty", ErrInvalidConfig)
	case c.Backend.Port < 1 || c.Backend.Port > 65535:
		return fmt.Errorf("%w: backend.port %d out of range", ErrInvalidConfig, c.Backend.Port)
	case c.Backend.Timeout < 0:
		return fmt.Errorf("%w: backend.timeout is negative", ErrInvalidConfig)
	case c.Backend.Retries < 0:
		return fmt.Errorf("%w: backend.retries is negative", ErrInvalidConfig)
	case c.HistoryLimit < 0:
		return fmt.Errorf("%w: history_limit is negative", ErrInvalidConfig)
	}
	return nil
}

// Dir returns the config directory.
// Resolution order: $XDG_CONFIG_HOME/aicode > ~/.config/aicode
func Dir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "aicode")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "aicode-config")
	}
	return filepath.Join(home, ".config", "aicode")
}

// Path returns the config file in use. $AICODE_CONFIG wins over Dir.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(Dir(), FileName)
}

// Load reads path on top of Default and applies environment overrides.
// A missing file is not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data in the format named by ext (".yaml", ".yml", ".json",
// ".toml") into cfg. Keys absent from data keep their current value.
func Decode(data []byte, ext string, cfg *Config) error {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// ApplyEnv overrides cfg from the AICODE_* variables.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvBackendHost); ok && v != "" {
		cfg.Backend.Host = v
	}
	if v, ok := os.LookupEnv(EnvBackendPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvBackendPort, v)
		}
		cfg.Backend.Port = port
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvTimeout, v)
		}
		cfg.Backend.Timeout = d
	}
	if v, ok := os.LookupEnv(EnvRetries); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvRetries, v)
		}
		cfg.Backend.Retries = n
	}
	return nil
}

// Encode renders cfg as YAML, the format `aicode config` prints.
func Encode(cfg Config) ([]byte, error) {
	return yaml.Marshal(struct {
		Backend      backendYAML `yaml:"backend"`
		HistoryLimit int         `yaml:"history_limit"`
		LogLevel     string      `yaml:"log_level"`
	}{
		Backend: backendYAML{
			Host:         cfg.Backend.Host,
			Port:         cfg.Backend.Port,
			Timeout:      cfg.Backend.Timeout.String(),
			Retries:      cfg.Backend.Retries,
			RetryBackoff: cfg.Backend.RetryBackoff.String(),
		},
		HistoryLimit: cfg.HistoryLimit,
		LogLevel:     cfg.LogLevel,
	})
}

type backendYAML struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Timeout      string `yaml:"timeout"`
	Retries      int    `yaml:"retries"`
	RetryBackoff string `yaml:"retry_backoff"`
}
