package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/audio"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var flagNoSound bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing right away.

Controls:
  Left/Right   - Move
  Up/X         - Rotate
  Down         - Soft drop
  Space        - Hard drop
  C            - Hold
  P/Esc        - Pause
  R            - Restart (when paused or after game over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Every game is recorded to the replay journal unless replay.record is off.

Examples:
  tetris play
  tetris play --seed 42
  tetris play --config ./my-tetris.yaml --no-sound`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound cues")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore()

	id, err := playGame(cfg, store)
	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	if id != "" {
		fmt.Printf("Replay saved: %s\n", id)
	}
}

// playGame runs one interactive game and returns the id of its last replay.
func playGame(cfg config.TetrisConfig, store *storage.Store) (string, error) {
	if !registry.Exists(tetris.ID) {
		return "", fmt.Errorf("game %q is not registered", tetris.ID)
	}
	game, err := registry.Create(tetris.ID)
	if err != nil {
		return "", err
	}
	session, ok := game.(tui.Session)
	if !ok {
		return "", fmt.Errorf("game %q cannot run in the terminal", tetris.ID)
	}

	opts := tui.Options{
		Runtime: runtimeConfig(),
		Config:  cfg,
	}
	if store != nil {
		opts.Replays = store
	}

	if !flagNoSound && cfg.Audio.Enabled {
		sound := audio.NewSoundManager(cfg.Audio)
		if err := sound.Initialize(); err != nil {
			// Non-fatal, game runs without sound
			logger.Warn("audio unavailable", "error", err)
		} else {
			defer sound.Close()
			opts.Sound = sound
		}
	}

	return tui.Run(session, opts)
}
