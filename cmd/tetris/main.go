// tetris is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	tetris                      - Title menu: play, browse replays, quit
//	tetris play                 - Start a game directly
//	tetris serve                - Start SSH server for remote play
//	tetris replays              - List recorded games and totals
//	tetris replay watch <id>    - Play a recording back
//	tetris replay verify <id>   - Re-simulate a recording and check its result
//	tetris replay delete <id>   - Remove a recording
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.tetris/tetris.db)
//	--config <path>  - Use a custom YAML config
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "tetris",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris in your terminal",
	Long: `A falling-block puzzle game for the terminal, with replays
recorded to a local journal and an SSH server for remote play.

Running tetris without a command opens the title menu.

Examples:
  tetris
  tetris play --seed 42
  tetris serve --ssh :2222
  tetris replays
  tetris replay verify 3f2a`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tetris config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
}

// terminalSize returns the size of stdout, falling back to 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	def := core.DefaultConfig()
	return def.ScreenW, def.ScreenH
}

// runtimeConfig builds the runtime config from the global flags.
func runtimeConfig() core.RuntimeConfig {
	w, h := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// loadConfig reads the tetris config. A broken file is reported and the
// defaults are used.
func loadConfig() config.TetrisConfig {
	tetris.SetConfigPath(flagConfig)
	cfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	return cfg
}

// openStore opens the replay journal, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open replay database", "error", err)
		return nil
	}
	return store
}

// mustOpenStore opens the replay journal or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay database: %v\n", err)
		os.Exit(1)
	}
	return store
}
