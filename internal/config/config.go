// Package config provides YAML-based configuration loading for the tetris
// frontends. Grid size and the piece set are fixed and not configurable.
package config

import "github.com/vovakirdan/tui-tetris/internal/core"

// TetrisConfig contains all user-tunable settings.
type TetrisConfig struct {
	Display DisplayConfig `yaml:"display"`
	Audio   AudioConfig   `yaml:"audio"`
	Replay  ReplayConfig  `yaml:"replay"`
}

// DisplayConfig controls what the terminal renderer draws.
type DisplayConfig struct {
	Ghost      bool    `yaml:"ghost"`
	GhostAlpha float64 `yaml:"ghost_alpha"` // 0..1, blend of the piece color over the background
	Effects    bool    `yaml:"effects"`
	ShowHelp   bool    `yaml:"show_help"`
}

// AudioConfig controls the synthesized feedback cues.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"` // 0..1
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Record bool `yaml:"record"`
}

// Normalize clamps out-of-range values into their valid ranges.
func (c *TetrisConfig) Normalize() {
	c.Display.GhostAlpha = core.ClampF(c.Display.GhostAlpha, 0, 1)
	c.Audio.MasterVolume = core.ClampF(c.Audio.MasterVolume, 0, 1)
}
