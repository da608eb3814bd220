package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Display: DisplayConfig{
			Ghost:      true,
			GhostAlpha: 0.2,
			Effects:    true,
			ShowHelp:   true,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.5,
		},
		Replay: ReplayConfig{
			Record: true,
		},
	}
}

// DefaultYAML returns the embedded default configuration file, used by
// `tetris config init` style tooling and tests.
func DefaultYAML() []byte {
	return defaultTetrisYAML
}
