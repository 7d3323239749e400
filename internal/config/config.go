// Package config defines the effectlab configuration: animation defaults,
// the scene layout, logging, script autorun and the activity panel.
//
// Configuration is layered: built-in defaults, then an optional file
// (TOML, YAML or JSON), then EFFECTLAB_* environment variables. The
// watcher subpackage reloads the file when it changes.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/dshills/effectlab/internal/anim"
)

// Config is the complete effectlab configuration.
type Config struct {
	Animation AnimationConfig `toml:"animation" yaml:"animation" json:"animation"`
	Scene     SceneConfig     `toml:"scene" yaml:"scene" json:"scene"`
	Log       LogConfig       `toml:"log" yaml:"log" json:"log"`
	Script    ScriptConfig    `toml:"script" yaml:"script" json:"script"`
	Activity  ActivityConfig  `toml:"activity" yaml:"activity" json:"activity"`
}

// AnimationConfig seeds the engine configuration.
type AnimationConfig struct {
	DurationMS    int      `toml:"duration_ms" yaml:"duration_ms" json:"duration_ms"`
	Easing        string   `toml:"easing" yaml:"easing" json:"easing"`
	DefaultTarget string   `toml:"default_target" yaml:"default_target" json:"default_target"`
	BatchTargets  []string `toml:"batch_targets" yaml:"batch_targets" json:"batch_targets"`
}

// SceneConfig lists the elements of the scene.
type SceneConfig struct {
	Targets []TargetConfig `toml:"targets" yaml:"targets" json:"targets"`
}

// TargetConfig describes one scene element. Geometry is in pixels.
type TargetConfig struct {
	ID            string  `toml:"id" yaml:"id" json:"id"`
	Label         string  `toml:"label" yaml:"label" json:"label"`
	Color         string  `toml:"color" yaml:"color" json:"color"`
	X             float64 `toml:"x" yaml:"x" json:"x"`
	Y             float64 `toml:"y" yaml:"y" json:"y"`
	Width         float64 `toml:"width" yaml:"width" json:"width"`
	Height        float64 `toml:"height" yaml:"height" json:"height"`
	NaturalHeight float64 `toml:"natural_height" yaml:"natural_height" json:"natural_height"`
	Opacity       float64 `toml:"opacity" yaml:"opacity" json:"opacity"`
	Visible       bool    `toml:"visible" yaml:"visible" json:"visible"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"`
	// File receives log output when the terminal UI owns stderr.
	File string `toml:"file" yaml:"file" json:"file"`
}

// ScriptConfig configures the Lua host.
type ScriptConfig struct {
	// Autorun is a Lua file executed once the engine is ready.
	Autorun string `toml:"autorun" yaml:"autorun" json:"autorun"`
}

// ActivityConfig configures the live-activity panel.
type ActivityConfig struct {
	MaxEntries int `toml:"max_entries" yaml:"max_entries" json:"max_entries"`
}

// Default returns the built-in configuration: three boxes, a collapsible
// panel and a stage box for moves.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			DurationMS:    int(anim.DefaultDuration / time.Millisecond),
			Easing:        string(anim.DefaultEasing),
			DefaultTarget: anim.DefaultTarget,
			BatchTargets:  slices.Clone(anim.DefaultBatchTargets),
		},
		Scene: SceneConfig{Targets: DefaultTargets()},
		Log:   LogConfig{Level: "info"},
		Activity: ActivityConfig{
			MaxEntries: 200,
		},
	}
}

// DefaultTargets returns the default scene elements.
func DefaultTargets() []TargetConfig {
	return []TargetConfig{
		{ID: "box1", Label: "box 1", Color: "#ec4899", X: 0, Y: 0, Width: 96, Height: 48, Opacity: 1, Visible: true},
		{ID: "box2", Label: "box 2", Color: "#8b5cf6", X: 128, Y: 0, Width: 96, Height: 48, Opacity: 1, Visible: true},
		{ID: "box3", Label: "box 3", Color: "#06b6d4", X: 256, Y: 0, Width: 96, Height: 48, Opacity: 1, Visible: true},
		{ID: "panelBox", Label: "panel", Color: "#22c55e", X: 0, Y: 80, Width: 352, Height: 72, NaturalHeight: 72, Opacity: 1, Visible: true},
		{ID: "customStage", Label: "stage", Color: "#f59e0b", X: 128, Y: 176, Width: 96, Height: 48, Opacity: 1, Visible: true},
	}
}

// Duration returns the animation duration, clamped to the engine range.
func (c *Config) Duration() time.Duration {
	return anim.ClampDuration(time.Duration(c.Animation.DurationMS) * time.Millisecond)
}

// Easing returns the configured easing, or the default when it is unknown.
func (c *Config) Easing() anim.Easing {
	e := anim.Easing(c.Animation.Easing)
	if !e.Valid() {
		return anim.DefaultEasing
	}
	return e
}

// Target returns the scene element with the given id.
func (c *Config) Target(id string) (TargetConfig, bool) {
	for _, t := range c.Scene.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return TargetConfig{}, false
}

// TargetIDs returns the scene element ids in order.
func (c *Config) TargetIDs() []string {
	ids := make([]string, len(c.Scene.Targets))
	for i, t := range c.Scene.Targets {
		ids[i] = t.ID
	}
	return ids
}

// Validate reports settings that cannot be used as given.
// Out-of-range durations and unknown easings are not errors: the engine
// clamps or ignores them.
func (c *Config) Validate() error {
	var errs ValidationErrors

	seen := make(map[string]bool)
	for i, t := range c.Scene.Targets {
		path := fmt.Sprintf("scene.targets[%d]", i)
		if t.ID == "" {
			errs = append(errs, &ValidationError{Path: path + ".id", Message: "must not be empty", Value: t.ID})
			continue
		}
		if seen[t.ID] {
			errs = append(errs, &ValidationError{Path: path + ".id", Message: "duplicate id", Value: t.ID})
		}
		seen[t.ID] = true
		if t.Opacity < 0 || t.Opacity > 1 {
			errs = append(errs, &ValidationError{Path: path + ".opacity", Message: "must be between 0 and 1", Value: t.Opacity})
		}
		if t.Width < 0 || t.Height < 0 || t.NaturalHeight < 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "size must not be negative", Value: t.ID})
		}
	}

	if c.Animation.DefaultTarget != "" && len(c.Scene.Targets) > 0 && !seen[c.Animation.DefaultTarget] {
		errs = append(errs, &ValidationError{Path: "animation.default_target", Message: "not a scene target", Value: c.Animation.DefaultTarget})
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "log.level", Message: "unknown level", Value: c.Log.Level})
	}

	if c.Activity.MaxEntries < 0 {
		errs = append(errs, &ValidationError{Path: "activity.max_entries", Message: "must not be negative", Value: c.Activity.MaxEntries})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
