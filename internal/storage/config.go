package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
)

const appName = "ink"

// Config holds ink user configuration.
type Config struct {
	Theme          string `json:"theme"`
	Homepage       string `json:"homepage"`
	PersistAllTabs bool   `json:"persist_all_tabs"` // restore open tabs on next start
	LogLevel       string `json:"log_level"`
	path           string
}

// envOverrides are applied on top of the config file. Unset variables leave
// the file value alone.
type envOverrides struct {
	Theme          *string `envconfig:"THEME"`
	Homepage       *string `envconfig:"HOMEPAGE"`
	PersistAllTabs *bool   `envconfig:"PERSIST_ALL_TABS"`
	LogLevel       *string `envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:    "default",
		LogLevel: "info",
	}
}

// ConfigDir returns the directory holding config.json. Tests replace it.
var ConfigDir = defaultConfigDir

// LoadConfig loads configuration from the standard config directory and
// applies INK_* environment overrides. A missing file is created with defaults.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "config.json")
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(appName, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.Theme != nil {
		c.Theme = *env.Theme
	}
	if env.Homepage != nil {
		c.Homepage = *env.Homepage
	}
	if env.PersistAllTabs != nil {
		c.PersistAllTabs = *env.PersistAllTabs
	}
	if env.LogLevel != nil {
		c.LogLevel = *env.LogLevel
	}
	return nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DataDir returns the data directory for persistent storage. INK_DATA_DIR
// takes precedence over the platform default.
func DataDir() (string, error) {
	if dir := os.Getenv("INK_DATA_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	default: // Linux, BSD, etc.
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, appName), nil
		}
		return filepath.Join(home, ".local", "share", appName), nil
	}
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, appName), nil
		}
		return filepath.Join(home, ".config", appName), nil
	}
}
