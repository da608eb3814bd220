package core

import "time"

// RuntimeConfig is what the platform hands a game on Reset. Together with
// the recorded inputs, Seed and TickRate fully determine a game.
type RuntimeConfig struct {
	ScreenW  int   // Game area width in cells
	ScreenH  int   // Game area height in cells
	TickRate int   // Fixed simulation ticks per second
	Seed     int64 // Piece randomizer seed; 0 lets the platform pick one
}

// DefaultConfig returns an 80x24 screen at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickInterval is the simulated time covered by one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / time.Duration(DefaultConfig().TickRate)
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the coarse status the platform polls after each tick.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool // Also set while the window is too small to play
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
