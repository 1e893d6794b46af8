// Package config handles loading and saving bur configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/burrow/config.yaml
//   - Data:    ~/.local/share/burrow/ (themes, exports)
//   - State:   ~/.local/state/burrow/ (caches)
//
// Per-vault state (focus, history) does NOT live here; it lives in the
// vault's own .burrow directory so it travels with the vault.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Vault represents a registered vault in the config. Registered names
// resolve on the command line: `bur --vault work` opens the vault
// registered as "work".
type Vault struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme      string  `yaml:"theme,omitempty"`       // "auto" (default), "dark", or "light"
	SplitRatio float64 `yaml:"split_ratio,omitempty"` // Tree/preview split (0.2-0.8)
	Preview    *bool   `yaml:"preview,omitempty"`     // Markdown preview pane (default on)
}

// Config is the top-level configuration for bur.
type Config struct {
	Vaults        []Vault  `yaml:"vaults,omitempty"`
	DefaultVault  string   `yaml:"default_vault,omitempty"`  // Name of the vault opened with no arguments
	Ignore        []string `yaml:"ignore,omitempty"`         // Extra directory names to skip when scanning
	DoubleClickMS int      `yaml:"double_click_ms,omitempty"` // Double-click window in milliseconds
	PersistFocus  *bool    `yaml:"persist_focus,omitempty"`  // Focus survives restarts (default on)
	History       *bool    `yaml:"history,omitempty"`        // Focus journal for the recent picker (default on)
	UI            UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DoubleClickMS: 300,
		UI: UIConfig{
			SplitRatio: 0.4,
		},
	}
}

// ConfigDir returns the XDG config directory for bur.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "burrow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "burrow")
}

// DataDir returns the XDG data directory for bur.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "burrow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "burrow")
}

// StateDir returns the XDG state directory for bur.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "burrow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "burrow")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ~ in vault paths
	for i := range cfg.Vaults {
		cfg.Vaults[i].Path = expandHome(cfg.Vaults[i].Path)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindVault returns the registered vault with the given name, or nil.
func (c Config) FindVault(name string) *Vault {
	for i := range c.Vaults {
		if strings.EqualFold(c.Vaults[i].Name, name) {
			return &c.Vaults[i]
		}
	}
	return nil
}

// ResolveVault maps a --vault argument onto a directory: a registered
// name wins; anything else is treated as a path with ~ expanded. An
// empty argument falls back to the default vault, then to ".".
func (c Config) ResolveVault(arg string) string {
	if arg == "" {
		if c.DefaultVault != "" {
			if v := c.FindVault(c.DefaultVault); v != nil {
				return v.Path
			}
		}
		return "."
	}
	if v := c.FindVault(arg); v != nil {
		return v.Path
	}
	return expandHome(arg)
}

// DoubleClickWindow returns the configured double-click window as a
// duration; zero or negative values mean the default.
func (c Config) DoubleClickWindow() time.Duration {
	if c.DoubleClickMS <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}

// PersistEnabled reports whether focus state should survive restarts.
func (c Config) PersistEnabled() bool {
	return c.PersistFocus == nil || *c.PersistFocus
}

// HistoryEnabled reports whether focus transitions are journaled.
func (c Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// PreviewEnabled reports whether the Markdown preview pane starts
// visible.
func (c Config) PreviewEnabled() bool {
	return c.UI.Preview == nil || *c.UI.Preview
}

// ResolvedPath returns the vault path with ~ expanded.
func (v Vault) ResolvedPath() string {
	return expandHome(v.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
