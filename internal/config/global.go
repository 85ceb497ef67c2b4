package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matsen/blueprint/internal/viewport"
)

// GlobalConfig represents configuration stored in ~/.config/bpg/config.yml.
type GlobalConfig struct {
	Canvas CanvasConfig `yaml:"canvas,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
	Admin  AdminConfig  `yaml:"admin,omitempty"`
	Store  StoreConfig  `yaml:"store,omitempty"`
}

// CanvasConfig tunes the canvas core.
type CanvasConfig struct {
	Zoom viewport.Limits `yaml:"zoom,omitempty"`
	// SimMaxPasses caps the reachability iteration; 0 uses the default.
	SimMaxPasses int `yaml:"sim_max_passes,omitempty"`
}

// LogConfig selects the log level, format, and destination.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // trace, debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json or console
	Output string `yaml:"output,omitempty"` // stderr, stdout, or a file path
}

// AdminConfig holds the credentials that unlock edit mode.
type AdminConfig struct {
	PassphraseHash string   `yaml:"passphrase_hash,omitempty"` // bcrypt hash
	Emails         []string `yaml:"emails,omitempty"`
}

// StoreConfig selects where graphs are kept. Without a RedisURL the
// repository's SQLite file is used.
type StoreConfig struct {
	RedisURL string `yaml:"redis_url,omitempty"`
	// Namespace prefixes every Redis key; defaults to bpg:<repo dir>:.
	Namespace string `yaml:"namespace,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bpg"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bpg/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.Log.Output != "" && cfg.Log.Output != "stderr" && cfg.Log.Output != "stdout" {
		cfg.Log.Output = ExpandPath(cfg.Log.Output)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// SaveGlobalConfig writes cfg to the global config path, creating the
// directory if needed, and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot resolve global config path")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}
	globalConfigCache = cfg
	return nil
}
