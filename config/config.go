package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brettbedarf/codecollab/internal/util"
	"gopkg.in/yaml.v3"
)

// CLI verbosity values accepted by [ConfigOverride.LogLvl]. Higher is louder.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Store backends
const (
	MemoryStore = "memory"
	BoltStore   = "bolt"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultFsName    = "codecollab"
	DefaultName      = "codecollab"
	DefaultLogLvl    = util.InfoLevel
	DefaultLogFormat = util.ConsoleFormat

	DefaultHost = "127.0.0.1"
	DefaultPort = 8080

	// DefaultReadTimeout is the HTTP read timeout in seconds
	DefaultReadTimeout = 15
	// DefaultWriteTimeout is the HTTP write timeout in seconds
	DefaultWriteTimeout = 15
	// DefaultIdleTimeout is the HTTP keep-alive idle timeout in seconds
	DefaultIdleTimeout = 60
	// DefaultShutdownTimeout bounds graceful shutdown in seconds
	DefaultShutdownTimeout = 10
	// DefaultRequestTimeout bounds a handler's context in seconds. Kept below
	// DefaultWriteTimeout so the timeout response can still be written.
	DefaultRequestTimeout = 10

	DefaultStoreType   = MemoryStore
	DefaultStorePath   = "codecollab.db"
	DefaultSeedStarter = true
)

// Config contains runtime configuration values for the collaboration server.
type Config struct {
	MountOptions

	LogLvl    util.LogLevel // Internal log level (Default Info)
	LogFormat string        // "console" or "json" (Default console)

	Host            string // HTTP listen host (Default 127.0.0.1)
	Port            int    // HTTP listen port (Default 8080)
	ReadTimeout     int    // Seconds
	WriteTimeout    int    // Seconds
	IdleTimeout     int    // Seconds
	ShutdownTimeout int    // Seconds
	RequestTimeout  int    // Seconds; 0 disables the per-request timeout

	StoreType   string // Content store backend, "memory" or "bolt" (Default memory)
	StorePath   string // bbolt database file; ignored by the memory backend
	SeedStarter bool   // Seed new projects with the starter layout (Default true)
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c *Config) ReadTimeoutDuration() time.Duration     { return seconds(c.ReadTimeout) }
func (c *Config) WriteTimeoutDuration() time.Duration    { return seconds(c.WriteTimeout) }
func (c *Config) IdleTimeoutDuration() time.Duration     { return seconds(c.IdleTimeout) }
func (c *Config) ShutdownTimeoutDuration() time.Duration { return seconds(c.ShutdownTimeout) }
func (c *Config) RequestTimeoutDuration() time.Duration  { return seconds(c.RequestTimeout) }

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	Debug  *bool   `yaml:"debug,omitempty" json:"debug,omitempty"`
	FsName *string `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name   *string `yaml:"name,omitempty" json:"name,omitempty"`

	// LogLvl is CLI verbosity (1 error .. 5 trace), not a [util.LogLevel]
	LogLvl    *int    `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat *string `yaml:"log_format,omitempty" json:"log_format,omitempty"`

	Host            *string `yaml:"host,omitempty" json:"host,omitempty"`
	Port            *int    `yaml:"port,omitempty" json:"port,omitempty"`
	ReadTimeout     *int    `yaml:"read_timeout,omitempty" json:"read_timeout,omitempty"`
	WriteTimeout    *int    `yaml:"write_timeout,omitempty" json:"write_timeout,omitempty"`
	IdleTimeout     *int    `yaml:"idle_timeout,omitempty" json:"idle_timeout,omitempty"`
	ShutdownTimeout *int    `yaml:"shutdown_timeout,omitempty" json:"shutdown_timeout,omitempty"`
	RequestTimeout  *int    `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`

	StoreType   *string `yaml:"store_type,omitempty" json:"store_type,omitempty"`
	StorePath   *string `yaml:"store_path,omitempty" json:"store_path,omitempty"`
	SeedStarter *bool   `yaml:"seed_starter,omitempty" json:"seed_starter,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:          DefaultLogLvl,
		LogFormat:       DefaultLogFormat,
		Host:            DefaultHost,
		Port:            DefaultPort,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		RequestTimeout:  DefaultRequestTimeout,
		StoreType:       DefaultStoreType,
		StorePath:       DefaultStorePath,
		SeedStarter:     DefaultSeedStarter,
	}
}

// NewConfig returns the defaults with override applied. A nil override
// yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// verbosityToLevel clamps v to 1..5 and maps it onto the internal levels,
// where 5 (trace) is the lowest.
func verbosityToLevel(v int) util.LogLevel {
	v = min(max(v, ErrorVerbose), TraceVerbose)
	return util.ErrorLevel - (v - ErrorVerbose)
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.LogLvl != nil {
		c.LogLvl = verbosityToLevel(*override.LogLvl)
	}
	if override.LogFormat != nil {
		c.LogFormat = *override.LogFormat
	}
	if override.Host != nil {
		c.Host = *override.Host
	}
	if override.Port != nil {
		c.Port = *override.Port
	}
	if override.ReadTimeout != nil {
		c.ReadTimeout = *override.ReadTimeout
	}
	if override.WriteTimeout != nil {
		c.WriteTimeout = *override.WriteTimeout
	}
	if override.IdleTimeout != nil {
		c.IdleTimeout = *override.IdleTimeout
	}
	if override.ShutdownTimeout != nil {
		c.ShutdownTimeout = *override.ShutdownTimeout
	}
	if override.RequestTimeout != nil {
		c.RequestTimeout = *override.RequestTimeout
	}
	if override.StoreType != nil {
		c.StoreType = *override.StoreType
	}
	if override.StorePath != nil {
		c.StorePath = *override.StorePath
	}
	if override.SeedStarter != nil {
		c.SeedStarter = *override.SeedStarter
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
