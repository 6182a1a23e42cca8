// Package config provides YAML-based configuration for the 2048 board,
// identity pool, palette and animation timing.
package config

import (
	"errors"
	"fmt"
)

// T2048Config contains all configuration for a 2048 session.
type T2048Config struct {
	Board     BoardConfig     `yaml:"board"`
	Pool      PoolConfig      `yaml:"pool"`
	Rules     RulesConfig     `yaml:"rules"`
	Palette   []int           `yaml:"palette"`
	Theme     ThemeConfig     `yaml:"theme"`
	Animation AnimationConfig `yaml:"animation"`
}

// BoardConfig defines the grid dimensions.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// PoolConfig sizes the tile identity pool.
type PoolConfig struct {
	Capacity int `yaml:"capacity"` // 0 = smallest safe size for the board
}

// RulesConfig holds the gameplay toggles.
type RulesConfig struct {
	AlwaysSpawn  bool `yaml:"always_spawn"`
	InitialTiles int  `yaml:"initial_tiles"`
}

// ThemeConfig holds the non-tile colors as 256-color codes.
type ThemeConfig struct {
	Board     int `yaml:"board"`
	Empty     int `yaml:"empty"`
	TextDark  int `yaml:"text_dark"`
	TextLight int `yaml:"text_light"`
}

// AnimationConfig holds per-role animation durations in milliseconds.
type AnimationConfig struct {
	SlideMs       int `yaml:"slide_ms"`
	PopMs         int `yaml:"pop_ms"`
	PopDelayMs    int `yaml:"pop_delay_ms"`
	VanishDelayMs int `yaml:"vanish_delay_ms"`
	HurryMs       int `yaml:"hurry_ms"` // cap applied to every duration in hurry mode
}

// Cells returns the number of board cells.
func (c T2048Config) Cells() int {
	return c.Board.Rows * c.Board.Cols
}

// MinPoolCapacity is the smallest identity pool that can serve a board of
// cells: one identity per tile, one fresh identity per merge while both
// sources retire, and one for the spawn.
func MinPoolCapacity(cells int) int {
	return cells + cells/2 + 1
}

// PoolCapacity returns the configured capacity, deriving it when unset.
func (c T2048Config) PoolCapacity() int {
	if c.Pool.Capacity == 0 {
		return MinPoolCapacity(c.Cells())
	}
	return c.Pool.Capacity
}

// namedInt pairs a config key with its value so checks report in a fixed order.
type namedInt struct {
	name  string
	value int
}

// Validate checks the configuration for values the engine cannot run with.
func (c T2048Config) Validate() error {
	var errs []error
	if c.Board.Rows < 2 || c.Board.Cols < 2 {
		errs = append(errs, fmt.Errorf("board must be at least 2x2, got %dx%d", c.Board.Rows, c.Board.Cols))
	}
	if c.Pool.Capacity < 0 {
		errs = append(errs, fmt.Errorf("pool.capacity must not be negative, got %d", c.Pool.Capacity))
	} else if need := MinPoolCapacity(c.Cells()); c.Pool.Capacity != 0 && c.Pool.Capacity < need {
		errs = append(errs, fmt.Errorf("pool.capacity %d is below %d for a %dx%d board",
			c.Pool.Capacity, need, c.Board.Rows, c.Board.Cols))
	}
	if c.Rules.InitialTiles != 1 {
		errs = append(errs, fmt.Errorf("rules.initial_tiles must be 1, got %d", c.Rules.InitialTiles))
	}
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette must not be empty"))
	}
	for i, code := range c.Palette {
		if code < 0 || code > 255 {
			errs = append(errs, fmt.Errorf("palette[%d] = %d is not a 256-color code", i, code))
		}
	}
	for _, f := range []namedInt{
		{"theme.board", c.Theme.Board},
		{"theme.empty", c.Theme.Empty},
		{"theme.text_dark", c.Theme.TextDark},
		{"theme.text_light", c.Theme.TextLight},
	} {
		if f.value < 0 || f.value > 255 {
			errs = append(errs, fmt.Errorf("%s = %d is not a 256-color code", f.name, f.value))
		}
	}
	for _, f := range []namedInt{
		{"animation.slide_ms", c.Animation.SlideMs},
		{"animation.pop_ms", c.Animation.PopMs},
		{"animation.vanish_delay_ms", c.Animation.VanishDelayMs},
		{"animation.hurry_ms", c.Animation.HurryMs},
	} {
		if f.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", f.name, f.value))
		}
	}
	if c.Animation.PopDelayMs < 0 {
		errs = append(errs, fmt.Errorf("animation.pop_delay_ms must not be negative, got %d", c.Animation.PopDelayMs))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
