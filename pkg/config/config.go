package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/timegrid"
)

const (
	xdgAppName = "dayplan"
	configFile = "config.yaml"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	EnvStatePath = "DAYPLAN_STATE_PATH"
	EnvBackend   = "DAYPLAN_BACKEND"
	EnvDarkMode  = "DAYPLAN_DARK_MODE"
)

type Config struct {
	StatePath string       `yaml:"state_path"`
	Backend   string       `yaml:"backend"`
	StartHour int          `yaml:"start_hour"`
	DarkMode  bool         `yaml:"dark_mode"`
	Theme     colors.Theme `yaml:"theme,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		StatePath: defaultStatePath(),
		Backend:   BackendFile,
		StartHour: timegrid.DefaultStartHour,
	}
}

func defaultStatePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, xdgAppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+xdgAppName)
	}
	return filepath.Join(home, ".local", "share", xdgAppName)
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the user config file and applies environment overrides.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStatePath); v != "" {
		c.StatePath = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDarkMode); v != "" {
		dark, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDarkMode, v, err)
		}
		c.DarkMode = dark
	}
	return nil
}

// Validate fills empty fields with defaults and rejects unknown backends.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		c.StatePath = defaultStatePath()
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = BackendFile
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q: use %s, %s or %s", c.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
	if c.StartHour < 0 || c.StartHour > 23 {
		return fmt.Errorf("start_hour must be between 0 and 23, got %d", c.StartHour)
	}
	return nil
}

// ResolvedTheme returns the built-in theme with the configured overrides applied.
func (c *Config) ResolvedTheme() colors.Theme {
	return colors.DefaultTheme().Merge(c.Theme)
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return err
	}
	return encoder.Close()
}
