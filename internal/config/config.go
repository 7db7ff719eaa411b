// Package config handles the bsptile configuration file: layout
// tuning, reconciliation settings, and keybindings, stored as TOML in
// the XDG config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
)

// UserConfig is the full on-disk configuration.
type UserConfig struct {
	Layout      LayoutConfig        `toml:"layout"`
	Reconcile   ReconcileConfig     `toml:"reconcile"`
	Keybindings map[string][]string `toml:"keybindings"`
}

// LayoutConfig tunes tiling geometry.
type LayoutConfig struct {
	// Gap is the spacing in cells between split halves.
	Gap int `toml:"gap"`
	// DefaultRatio is assigned to every new split.
	DefaultRatio float64 `toml:"default_ratio"`
	// MinRatio and MaxRatio clamp ratio adjustments.
	MinRatio float64 `toml:"min_ratio"`
	MaxRatio float64 `toml:"max_ratio"`
	// SplitMode selects the orientation policy: zigzag, vertical, or
	// horizontal.
	SplitMode string `toml:"split_mode"`
	// ZenFraction is the screen fraction a zen cell covers.
	ZenFraction float64 `toml:"zen_fraction"`
	// RatioStep is the increment used by grow/shrink keybindings.
	RatioStep float64 `toml:"ratio_step"`
}

// ReconcileConfig tunes the reconciliation loop.
type ReconcileConfig struct {
	// IntervalMS is the polling interval in milliseconds.
	IntervalMS int `toml:"interval_ms"`
	// CompactThreshold triggers compaction once the tombstone count
	// exceeds this multiple of the live node count.
	CompactThreshold float64 `toml:"compact_threshold"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Layout: LayoutConfig{
			Gap:          1,
			DefaultRatio: 0.5,
			MinRatio:     0.1,
			MaxRatio:     0.9,
			SplitMode:    "zigzag",
			ZenFraction:  0.9,
			RatioStep:    0.05,
		},
		Reconcile: ReconcileConfig{
			IntervalMS:       250,
			CompactThreshold: 0.5,
		},
		Keybindings: map[string][]string{
			"new_window":        {"n"},
			"close_window":      {"x"},
			"focus_left":        {"h", "left"},
			"focus_down":        {"j", "down"},
			"focus_up":          {"k", "up"},
			"focus_right":       {"l", "right"},
			"toggle_split_dir":  {"s"},
			"shrink":            {"-"},
			"grow":              {"=", "+"},
			"toggle_zen":        {"z"},
			"toggle_fullscreen": {"f"},
			"cycle_split_mode":  {"m"},
			"toggle_swap":       {"w"},
			"compact":           {"c"},
			"next_screen":       {"tab"},
			"toggle_help":       {"?"},
			"quit":              {"q", "ctrl+c"},
		},
	}
}

// LayoutOptions converts the layout section to cluster geometry
// options, falling back to defaults for out-of-band values.
func (c *UserConfig) LayoutOptions() cluster.Options {
	opts := cluster.DefaultOptions()
	if c.Layout.Gap >= 0 {
		opts.Gap = c.Layout.Gap
	}
	if c.Layout.DefaultRatio > 0 && c.Layout.DefaultRatio < 1 {
		opts.DefaultRatio = c.Layout.DefaultRatio
	}
	if c.Layout.MinRatio > 0 && c.Layout.MaxRatio < 1 && c.Layout.MinRatio < c.Layout.MaxRatio {
		opts.MinRatio = c.Layout.MinRatio
		opts.MaxRatio = c.Layout.MaxRatio
	}
	return opts
}

// SplitMode parses the configured split mode, defaulting to zigzag for
// unknown values.
func (c *UserConfig) SplitMode() cluster.SplitMode {
	mode, err := cluster.ParseSplitMode(c.Layout.SplitMode)
	if err != nil {
		return cluster.ModeZigzag
	}
	return mode
}

// GetConfigPath returns the path of the configuration file, creating
// parent directories as needed.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("bsptile", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("could not resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads the configuration file, writing the defaults
// first when no file exists yet. Unknown keys are ignored; missing
// sections keep their defaults.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if werr := WriteConfig(path, cfg); werr != nil {
			return cfg, fmt.Errorf("could not write default config: %w", werr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes TOML configuration data over the defaults.
func ParseConfig(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	return cfg, nil
}

// WriteConfig marshals cfg to path with a commented header.
func WriteConfig(path string, cfg *UserConfig) error {
	var sb strings.Builder
	sb.WriteString("# bsptile configuration file\n")
	sb.WriteString("# Layout values apply on the next resize; keybindings accept\n")
	sb.WriteString("# multiple keys per action.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Location: " + path + "\n\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
