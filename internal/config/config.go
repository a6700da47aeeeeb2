// Package config loads the SQLens configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/sqlens/sqlens/internal/errs"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// DatabaseConfig describes the SQLite database to inspect.
type DatabaseConfig struct {
	// Path is the filesystem path to the database file.
	Path string `yaml:"path"`

	// Name labels the database in snapshots and logs.
	// Defaults to the file path when empty.
	Name string `yaml:"name"`

	// ReadOnly opens the file in read-only mode. Defaults to true.
	ReadOnly *bool `yaml:"read_only"`

	// BusyTimeout is how long queries wait on a locked database.
	BusyTimeout Duration `yaml:"busy_timeout"`

	// QueryTimeout is the per-request deadline applied by the server.
	QueryTimeout Duration `yaml:"query_timeout"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// SnapshotConfig describes the optional object store snapshots are
// published to. Snapshots are disabled when Endpoint is empty.
type SnapshotConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// Enabled reports whether snapshot publishing is configured.
func (s SnapshotConfig) Enabled() bool {
	return s.Endpoint != ""
}

// secretKeyEnv overrides snapshot.secret_key so credentials can stay out of
// the config file.
const secretKeyEnv = "SQLENS_S3_SECRET_KEY"

// Default returns the configuration used when a field is absent from the
// file.
func Default() *Config {
	readOnly := true
	return &Config{
		Database: DatabaseConfig{
			ReadOnly:     &readOnly,
			BusyTimeout:  Duration(5 * time.Second),
			QueryTimeout: Duration(30 * time.Second),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Snapshot: SnapshotConfig{
			Bucket: "snapshots",
		},
	}
}

// Load reads and validates the YAML file at path, applying defaults for
// absent fields and environment overrides for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("reading config %s", path), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("parsing config %s", path), err)
	}

	if v := os.Getenv(secretKeyEnv); v != "" {
		cfg.Snapshot.SecretKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or inconsistent settings.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errs.New(errs.ErrKindInvalidInput, "database.path is required")
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrKindInvalidInput, "server.addr is required")
	}
	if c.Snapshot.Enabled() {
		if c.Snapshot.AccessKey == "" || c.Snapshot.SecretKey == "" {
			return errs.New(errs.ErrKindInvalidInput, "snapshot store requires access_key and secret_key")
		}
		if c.Snapshot.Bucket == "" {
			return errs.New(errs.ErrKindInvalidInput, "snapshot.bucket is required")
		}
	}
	return nil
}

// DatabaseName returns the label used for the database in snapshots and
// logs.
func (c *Config) DatabaseName() string {
	if c.Database.Name != "" {
		return c.Database.Name
	}
	return c.Database.Path
}
