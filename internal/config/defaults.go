package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the default 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{Rows: 4, Cols: 4},
		Pool:  PoolConfig{Capacity: 30},
		Rules: RulesConfig{
			AlwaysSpawn:  false,
			InitialTiles: 1,
		},
		Palette: []int{255, 223, 216, 209, 203, 202, 222, 221, 227, 220, 214},
		Theme: ThemeConfig{
			Board:     145,
			Empty:     181,
			TextDark:  242,
			TextLight: 231,
		},
		Animation: AnimationConfig{
			SlideMs:       200,
			PopMs:         250,
			PopDelayMs:    100,
			VanishDelayMs: 150,
			HurryMs:       50,
		},
	}
}
