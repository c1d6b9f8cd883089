package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	Addr              string   `json:"addr" yaml:"addr" toml:"addr"`
	CommitDelayMS     int      `json:"commit_delay_ms" yaml:"commit_delay_ms" toml:"commit_delay_ms"`
	LogLevel          string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat         string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	SubscriberBuffer  int      `json:"subscriber_buffer" yaml:"subscriber_buffer" toml:"subscriber_buffer"`
	MaxMessageBytes   int64    `json:"max_message_bytes" yaml:"max_message_bytes" toml:"max_message_bytes"`
	ShutdownTimeoutMS int      `json:"shutdown_timeout_ms" yaml:"shutdown_timeout_ms" toml:"shutdown_timeout_ms"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:              ":7070",
		CommitDelayMS:     1000,
		LogLevel:          "info",
		LogFormat:         "console",
		CORSOrigins:       []string{"*"},
		SubscriberBuffer:  64,
		MaxMessageBytes:   64 << 10,
		ShutdownTimeoutMS: 5000,
	}
}

// CommitDelay returns the commit delay as a duration.
func (c Config) CommitDelay() time.Duration {
	return time.Duration(c.CommitDelayMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Merge returns c with every non-zero field of o applied on top.
func (c Config) Merge(o Config) Config {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.CommitDelayMS > 0 {
		c.CommitDelayMS = o.CommitDelayMS
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if len(o.CORSOrigins) > 0 {
		c.CORSOrigins = append([]string(nil), o.CORSOrigins...)
	}
	if o.SubscriberBuffer > 0 {
		c.SubscriberBuffer = o.SubscriberBuffer
	}
	if o.MaxMessageBytes > 0 {
		c.MaxMessageBytes = o.MaxMessageBytes
	}
	if o.ShutdownTimeoutMS > 0 {
		c.ShutdownTimeoutMS = o.ShutdownTimeoutMS
	}
	return c
}

// FromEnv reads overrides from the environment. PORT is honored as a bare
// port number; INSTANCED_ADDR takes precedence over it.
func FromEnv(getenv func(string) string) (Config, error) {
	var cfg Config
	if v := getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := getenv("INSTANCED_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("INSTANCED_COMMIT_DELAY_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("INSTANCED_COMMIT_DELAY_MS: %w", err)
		}
		cfg.CommitDelayMS = n
	}
	cfg.LogLevel = getenv("INSTANCED_LOG_LEVEL")
	cfg.LogFormat = getenv("INSTANCED_LOG_FORMAT")
	return cfg, nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// expandHome resolves a leading "~" or "~/" against the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
