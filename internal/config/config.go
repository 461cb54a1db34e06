// Package config provides configuration management for fwblob.
// It has no dependencies on other internal packages to avoid import cycles.
//
// Values are resolved in this order (highest priority first):
//  1. CLI flags (explicitly passed)
//  2. FWBLOB_* environment variables
//  3. Config file values
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the name of the configuration directory
	DirName = "fwblob"
	// ConfigFile is the name of the configuration file
	ConfigFile = "config.yml"
)

// File and directory permission constants for consistent security settings.
const (
	DirPerm  = 0700
	FilePerm = 0600
)

// Built-in defaults.
const (
	DefaultOutput     = "test.bin"
	DefaultGit        = "git"
	DefaultGitTimeout = 10 * time.Second
)

// Config represents the CLI configuration.
type Config struct {
	// Output is the blob path used when none is given on the command line
	Output string `yaml:"output,omitempty"`
	// Git is the version-control executable
	Git string `yaml:"git,omitempty"`
	// GitTimeout bounds the commit hash lookup
	GitTimeout Duration `yaml:"git_timeout,omitempty"`
	// LogDir enables rotated file logging when set
	LogDir string `yaml:"log_dir,omitempty"`
}

// Duration wraps time.Duration for YAML (un)marshaling as a string like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// IsZero reports whether the duration is unset, for omitempty.
func (d Duration) IsZero() bool {
	return d.Duration == 0
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Output:     DefaultOutput,
		Git:        DefaultGit,
		GitTimeout: Duration{DefaultGitTimeout},
	}
}

// GetConfigDir returns the configuration directory path, creating it if needed.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/fwblob
func GetConfigDir() (string, error) {
	configDir, err := configDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, DirPerm); err != nil {
		return "", err
	}

	return configDir, nil
}

// configDir resolves the configuration directory without creating it.
func configDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, DirName), nil
}

// GetConfigPath returns the full path to config.yml. The directory is not
// created; only Save does that.
func GetConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// ShortenPath replaces the home directory prefix with ~ for display purposes.
func ShortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) >= len(home) && path[:len(home)] == home {
		return "~" + path[len(home):]
	}
	return path
}

// LoadFile reads only the config file, without defaults or env overrides.
// A missing file, or a config directory that cannot be resolved, yields an
// empty config.
func LoadFile() (*Config, error) {
	cfg := &Config{}

	path, err := GetConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if isMissing(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", ShortenPath(path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", ShortenPath(path), err)
	}
	return cfg, nil
}

// isMissing reports whether err means there is no config file to read,
// including a config home that is a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// Load returns defaults merged with the config file and environment overrides.
func Load() (*Config, error) {
	fileCfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.merge(fileCfg)

	if v := os.Getenv("FWBLOB_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("FWBLOB_GIT"); v != "" {
		cfg.Git = v
	}
	if v := os.Getenv("FWBLOB_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}

	return cfg, nil
}

// merge copies the non-zero fields of other into c.
func (c *Config) merge(other *Config) {
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.Git != "" {
		c.Git = other.Git
	}
	if other.GitTimeout.Duration != 0 {
		c.GitTimeout = other.GitTimeout
	}
	if other.LogDir != "" {
		c.LogDir = other.LogDir
	}
}

// Validate checks the config for invalid values and returns an error
// describing all problems found.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, "output: must not be empty")
	} else if strings.HasSuffix(c.Output, string(filepath.Separator)) {
		errs = append(errs, fmt.Sprintf("output: must be a file path, got directory %q", c.Output))
	}
	if strings.TrimSpace(c.Git) == "" {
		errs = append(errs, "git: must not be empty")
	}
	if c.GitTimeout.Duration <= 0 {
		errs = append(errs, fmt.Sprintf("git_timeout: must be positive, got %s", c.GitTimeout))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Save saves the configuration to config.yml, creating the directory.
func Save(cfg *Config) error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ConfigFile)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, FilePerm)
}

// Clear removes the configuration file
func Clear() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !isMissing(err) {
		return err
	}
	return nil
}

// Exists returns true if a config file is present.
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
