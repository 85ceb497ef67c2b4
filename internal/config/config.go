// Package config handles repository configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Config represents repository configuration stored in .blueprint/config.json.
type Config struct {
	DefaultGraph string  `json:"default_graph,omitempty"` // Graph opened when none is named
	ViewWidth    float64 `json:"view_width,omitempty"`    // Canvas size used to place spawned nodes
	ViewHeight   float64 `json:"view_height,omitempty"`
}

const (
	BlueprintDir = ".blueprint"
	ConfigFile   = "config.json"
	DBFile       = "blueprint.db"

	// DefaultGraphID is the graph seeded with the starter timeline.
	DefaultGraphID = "EventGraph"
	// DefaultViewWidth and DefaultViewHeight apply when the config leaves them unset.
	DefaultViewWidth  = 1280
	DefaultViewHeight = 800
)

// GraphIDPattern is the regex pattern for valid graph ids.
var GraphIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Errors.
var (
	ErrInvalidGraphID = errors.New("graph id must be alphanumeric with hyphens or underscores")
	ErrUnknownKey     = errors.New("unknown config key")
	ErrNotRepository  = errors.New("not in a blueprint repository (no .blueprint directory found)")
)

// Keys lists the settable config keys.
var Keys = []string{"default_graph", "view_width", "view_height"}

// BlueprintPath returns the path to the .blueprint directory from a root path.
func BlueprintPath(root string) string {
	return filepath.Join(root, BlueprintDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, BlueprintDir, ConfigFile)
}

// DBPath returns the path to blueprint.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, BlueprintDir, DBFile)
}

// IsRepository checks if the given path contains a blueprint repository.
func IsRepository(root string) bool {
	info, err := os.Stat(BlueprintPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a blueprint repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotRepository
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Graph returns the configured default graph id.
func (c *Config) Graph() string {
	if c.DefaultGraph == "" {
		return DefaultGraphID
	}
	return c.DefaultGraph
}

// ViewSize returns the configured canvas size, applying defaults.
func (c *Config) ViewSize() (w, h float64) {
	w, h = c.ViewWidth, c.ViewHeight
	if w <= 0 {
		w = DefaultViewWidth
	}
	if h <= 0 {
		h = DefaultViewHeight
	}
	return w, h
}

// Get returns the value of a config key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "default_graph":
		return c.Graph(), nil
	case "view_width":
		w, _ := c.ViewSize()
		return strconv.FormatFloat(w, 'f', -1, 64), nil
	case "view_height":
		_, h := c.ViewSize()
		return strconv.FormatFloat(h, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %s (valid: %v)", ErrUnknownKey, key, Keys)
}

// Set parses and assigns a config key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_graph":
		if err := ValidateGraphID(value); err != nil {
			return err
		}
		c.DefaultGraph = value
		return nil
	case "view_width", "view_height":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid %s: %q (must be a positive number)", key, value)
		}
		if key == "view_width" {
			c.ViewWidth = f
		} else {
			c.ViewHeight = f
		}
		return nil
	}
	return fmt.Errorf("%w: %s (valid: %v)", ErrUnknownKey, key, Keys)
}

// ValidateGraphID checks a graph id before it is used as a storage key suffix.
func ValidateGraphID(id string) error {
	if !GraphIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidGraphID, id)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
