// Package config loads recall's configuration from ~/.recall/config.yaml with
// RECALL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/recall/internal/fsrs"
	"github.com/rcliao/recall/internal/session"
	"github.com/rcliao/recall/internal/store"
)

// ErrInvalid marks configuration that was read but is unusable.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. RECALL_STORE_PATH.
const EnvPrefix = "RECALL"

// Config holds all recall configuration.
type Config struct {
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Session   SessionConfig   `mapstructure:"session" yaml:"session"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// StoreConfig locates the schedule file and tunes its write discipline. An
// empty BackupDir keeps backups next to the schedule file.
type StoreConfig struct {
	Path        string        `mapstructure:"path" yaml:"path"`
	BackupDir   string        `mapstructure:"backup_dir" yaml:"backup_dir"`
	BackupKeep  int           `mapstructure:"backup_keep" yaml:"backup_keep"`
	LockTimeout time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout"`
}

// SchedulerConfig holds the forgetting-curve parameters. An empty weight
// list means the pretrained defaults.
type SchedulerConfig struct {
	DesiredRetention float64   `mapstructure:"desired_retention" yaml:"desired_retention"`
	MaximumInterval  int       `mapstructure:"maximum_interval" yaml:"maximum_interval"`
	Weights          []float64 `mapstructure:"weights" yaml:"weights,omitempty"`
}

// SessionConfig controls session construction.
type SessionConfig struct {
	Limit         int      `mapstructure:"limit" yaml:"limit"`
	Graph         string   `mapstructure:"graph" yaml:"graph"`
	RelationTypes []string `mapstructure:"relation_types" yaml:"relation_types,omitempty"`
}

// LoggingConfig sets the log level (debug, info, warn, error) and format
// (console or json).
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Dir returns the default configuration directory (~/.recall).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recall"
	}
	return filepath.Join(home, ".recall")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := Dir()
	return &Config{
		Store: StoreConfig{
			Path:        filepath.Join(dir, "schedule.json"),
			BackupKeep:  store.DefaultBackupKeep,
			LockTimeout: store.DefaultLockTimeout,
		},
		Scheduler: SchedulerConfig{
			DesiredRetention: fsrs.DefaultDesiredRetention,
			MaximumInterval:  fsrs.DefaultMaximumInterval,
		},
		Session: SessionConfig{
			Limit: session.DefaultLimit,
			Graph: filepath.Join(dir, "graph.json"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config file at path (DefaultPath when empty). A missing
// file is not an error: defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, Default())

	// Example: RECALL_STORE_LOCK_TIMEOUT=5s
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Store.BackupDir = expandPath(cfg.Store.BackupDir)
	cfg.Session.Graph = expandPath(cfg.Session.Graph)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.backup_dir", d.Store.BackupDir)
	v.SetDefault("store.backup_keep", d.Store.BackupKeep)
	v.SetDefault("store.lock_timeout", d.Store.LockTimeout)
	v.SetDefault("scheduler.desired_retention", d.Scheduler.DesiredRetention)
	v.SetDefault("scheduler.maximum_interval", d.Scheduler.MaximumInterval)
	v.SetDefault("scheduler.weights", d.Scheduler.Weights)
	v.SetDefault("session.limit", d.Session.Limit)
	v.SetDefault("session.graph", d.Session.Graph)
	v.SetDefault("session.relation_types", d.Session.RelationTypes)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required", ErrInvalid)
	}
	if c.Session.Limit < 1 {
		return fmt.Errorf("%w: session.limit must be at least 1, got %d", ErrInvalid, c.Session.Limit)
	}
	if _, err := c.Parameters(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// Parameters converts the scheduler section to model parameters.
func (c *Config) Parameters() (fsrs.Parameters, error) {
	p := fsrs.Parameters{
		DesiredRetention: c.Scheduler.DesiredRetention,
		MaximumInterval:  c.Scheduler.MaximumInterval,
		Weights:          fsrs.DefaultWeights,
	}
	if n := len(c.Scheduler.Weights); n > 0 {
		if n != fsrs.NumWeights {
			return p, fmt.Errorf("%w: scheduler.weights needs %d values, got %d", fsrs.ErrInvalidParameters, fsrs.NumWeights, n)
		}
		copy(p.Weights[:], c.Scheduler.Weights)
	}
	if err := fsrs.ValidateParameters(p); err != nil {
		return p, err
	}
	return p, nil
}

// StoreOptions converts the store section to store options.
func (c *Config) StoreOptions(sched *fsrs.Scheduler) store.Options {
	return store.Options{
		LockTimeout: c.Store.LockTimeout,
		BackupDir:   c.Store.BackupDir,
		BackupKeep:  c.Store.BackupKeep,
		Scheduler:   sched,
	}
}

// Write saves cfg as YAML, creating the directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := "# recall configuration. Environment variables RECALL_<SECTION>_<KEY> override these values.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// expandPath replaces a leading ~ with the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
