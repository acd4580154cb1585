// Package config implements the daemon's TOML configuration schema.
// Parsing uses github.com/pelletier/go-toml/v2.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the root configuration document.
type Config struct {
	General      General        `toml:"general"`
	Playlist     *Playlist      `toml:"playlist,omitempty"`
	Schedule     []ScheduleEntry `toml:"schedule,omitempty"`
	Output       []OutputConfig `toml:"output,omitempty"`
	Collection   []Collection   `toml:"collection,omitempty"`
	ShaderPreset []ShaderPreset `toml:"shader_preset,omitempty"`
	Advanced     Advanced       `toml:"advanced"`
}

// General mirrors GeneralSettings.
type General struct {
	LogLevel          string `toml:"log_level"`
	DefaultTransition string `toml:"default_transition"`
	DefaultDuration   uint64 `toml:"default_duration"`
	DefaultScale      string `toml:"default_scale"`
}

// Playlist mirrors PlaylistSettings.
type Playlist struct {
	Enabled            bool     `toml:"enabled"`
	Interval           uint64   `toml:"interval"`
	Shuffle            bool     `toml:"shuffle"`
	Transition         string   `toml:"transition"`
	TransitionDuration uint64   `toml:"transition_duration"`
	Sources            []string `toml:"sources"`
	Extensions         []string `toml:"extensions"`
}

// ScheduleEntry mirrors the Rust struct of the same name.
type ScheduleEntry struct {
	Name       string `toml:"name"`
	StartTime  string `toml:"start_time"`
	EndTime    string `toml:"end_time"`
	Wallpaper  string `toml:"wallpaper"`
	Transition string `toml:"transition"`
	Duration   uint64 `toml:"duration"`
}

// OutputConfig mirrors OutputConfig.
type OutputConfig struct {
	Name            string   `toml:"name"`
	Wallpaper       string   `toml:"wallpaper,omitempty"`
	Scale           string   `toml:"scale"`
	Transition      string   `toml:"transition"`
	Duration        uint64   `toml:"duration"`
	Playlist        bool     `toml:"playlist"`
	PlaylistSources []string `toml:"playlist_sources,omitempty"`
}

// Collection mirrors Collection.
type Collection struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Wallpapers  []string `toml:"wallpapers"`
}

// ShaderPreset mirrors ShaderPreset, using pointer fields for the
// optional parameters (Rust's Option<T>).
type ShaderPreset struct {
	Name        string   `toml:"name"`
	Shader      string   `toml:"shader"`
	Description string   `toml:"description"`
	Speed       *float64 `toml:"speed,omitempty"`
	Color1      *string  `toml:"color1,omitempty"`
	Color2      *string  `toml:"color2,omitempty"`
	Color3      *string  `toml:"color3,omitempty"`
	Scale       *float64 `toml:"scale,omitempty"`
	Intensity   *float64 `toml:"intensity,omitempty"`
	Count       *uint32  `toml:"count,omitempty"`
}

// Advanced mirrors AdvancedSettings.
type Advanced struct {
	EnableVideo         bool    `toml:"enable_video"`
	VideoMuted          bool    `toml:"video_muted"`
	VideoLoop           bool    `toml:"video_loop"`
	MaxFPS              uint32  `toml:"max_fps"`
	CacheLimitMB        uint64  `toml:"cache_limit_mb"`
	PreloadNext         bool    `toml:"preload_next"`
	PerformanceMode     string  `toml:"performance_mode"`
	AutoBatteryMode     bool    `toml:"auto_battery_mode"`
	EnforceMemoryLimits bool    `toml:"enforce_memory_limits"`
	MaxMemoryMB         uint64  `toml:"max_memory_mb"`
	CPUThreshold        float64 `toml:"cpu_threshold"`

	// TieringEnabled reconnects SetPerformanceMode to the resource
	// monitor's auto-switching loop (decided in DESIGN.md: default false,
	// since auto-management always ran and the IPC setter is new surface
	// this config flag gates).
	TieringEnabled bool `toml:"tiering_enabled"`
}

// Default returns the default configuration, field-for-field matching
// the Rust Default impls.
func Default() Config {
	return Config{
		General: General{
			LogLevel:          "info",
			DefaultTransition: "fade",
			DefaultDuration:   500,
			DefaultScale:      "fill",
		},
		Advanced: Advanced{
			EnableVideo:         true,
			VideoMuted:          true,
			VideoLoop:           true,
			MaxFPS:              60,
			CacheLimitMB:        500,
			PreloadNext:         true,
			PerformanceMode:     "balanced",
			AutoBatteryMode:     true,
			EnforceMemoryLimits: true,
			MaxMemoryMB:         300,
			CPUThreshold:        80.0,
			TieringEnabled:      false,
		},
	}
}

func defaultExtensions() []string {
	return []string{"jpg", "jpeg", "png", "webp", "gif", "mp4", "webm", "mkv"}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/momoi/config.toml (or the
// platform equivalent via os.UserConfigDir).
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config directory: %w", err)
	}
	return filepath.Join(dir, "momoi", "config.toml"), nil
}

// Load reads and parses the default config path, returning defaults if
// absent.
func Load() (Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the config file at path.
func LoadFromPath(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read file %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills per-entry fields whose Rust counterpart carried a
// serde(default = "...") attribute but whose Go zero value would
// otherwise be empty (toml.Unmarshal does not apply Default()'s nested
// field values to entries absent from the file).
func applyDefaults(cfg *Config) {
	if cfg.Playlist != nil {
		if cfg.Playlist.Interval == 0 {
			cfg.Playlist.Interval = 300
		}
		if cfg.Playlist.Transition == "" {
			cfg.Playlist.Transition = "fade"
		}
		if cfg.Playlist.TransitionDuration == 0 {
			cfg.Playlist.TransitionDuration = 500
		}
		if len(cfg.Playlist.Extensions) == 0 {
			cfg.Playlist.Extensions = defaultExtensions()
		}
	}
	for i := range cfg.Schedule {
		if cfg.Schedule[i].Transition == "" {
			cfg.Schedule[i].Transition = "fade"
		}
		if cfg.Schedule[i].Duration == 0 {
			cfg.Schedule[i].Duration = 500
		}
	}
	for i := range cfg.Output {
		if cfg.Output[i].Scale == "" {
			cfg.Output[i].Scale = "fill"
		}
		if cfg.Output[i].Transition == "" {
			cfg.Output[i].Transition = "fade"
		}
		if cfg.Output[i].Duration == 0 {
			cfg.Output[i].Duration = 500
		}
	}
}

var validTransitions = map[string]struct{}{
	"none": {}, "fade": {}, "wipe-left": {}, "wipe-right": {}, "wipe-top": {},
	"wipe-bottom": {}, "wipe-angle": {}, "center": {}, "outer": {}, "random": {},
}

var validScales = map[string]struct{}{
	"center": {}, "fill": {}, "fit": {}, "stretch": {}, "tile": {},
}

var validLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
}

// Validate mirrors Config::validate, checking log level, transitions,
// scales, and schedule time formats.
func (c Config) Validate() error {
	if _, ok := validLogLevels[c.General.LogLevel]; !ok {
		return fmt.Errorf("config: invalid log level: %s", c.General.LogLevel)
	}
	if err := validateTransition(c.General.DefaultTransition); err != nil {
		return err
	}
	if c.Playlist != nil {
		if err := validateTransition(c.Playlist.Transition); err != nil {
			return err
		}
	}
	for _, s := range c.Schedule {
		if err := validateTransition(s.Transition); err != nil {
			return err
		}
		if err := validateTime(s.StartTime); err != nil {
			return err
		}
		if err := validateTime(s.EndTime); err != nil {
			return err
		}
	}
	for _, o := range c.Output {
		if err := validateTransition(o.Transition); err != nil {
			return err
		}
		if err := validateScale(o.Scale); err != nil {
			return err
		}
	}
	if err := validateScale(c.General.DefaultScale); err != nil {
		return err
	}
	return nil
}

func validateTransition(t string) error {
	if _, ok := validTransitions[t]; !ok {
		return fmt.Errorf("config: invalid transition: %s", t)
	}
	return nil
}

func validateScale(s string) error {
	if _, ok := validScales[s]; !ok {
		return fmt.Errorf("config: invalid scale mode: %s", s)
	}
	return nil
}

func validateTime(t string) error {
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return fmt.Errorf("config: invalid time format: %s (expected HH:MM)", t)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("config: invalid hour in time: %s", t)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("config: invalid minute in time: %s", t)
	}
	if hour >= 24 {
		return fmt.Errorf("config: invalid hour (must be 0-23): %s", t)
	}
	if minute >= 60 {
		return fmt.Errorf("config: invalid minute (must be 0-59): %s", t)
	}
	return nil
}

// GetOutputConfig finds an output entry by name.
func (c Config) GetOutputConfig(name string) (OutputConfig, bool) {
	for _, o := range c.Output {
		if o.Name == name {
			return o, true
		}
	}
	return OutputConfig{}, false
}

// GetCollection finds a collection by name.
func (c Config) GetCollection(name string) (Collection, bool) {
	for _, col := range c.Collection {
		if col.Name == name {
			return col, true
		}
	}
	return Collection{}, false
}
