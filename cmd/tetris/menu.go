package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	for {
		width, height := terminalSize()
		choice, err := tui.RunMenu(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		switch choice {
		case tui.MenuPlay:
			if _, err := playGame(cfg, store); err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			}

		case tui.MenuReplays:
			if !browseReplays(store, cfg) {
				return
			}

		default:
			return
		}
	}
}

// browseReplays runs the replay browser, watching picked recordings, until
// the user goes back (true) or quits (false).
func browseReplays(store *storage.Store, cfg config.TetrisConfig) bool {
	var replays tui.ReplayStore
	if store != nil {
		replays = store
	}

	for {
		width, height := terminalSize()
		selected, goBack, err := tui.RunReplays(replays, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		if selected == "" {
			return goBack
		}

		rec, err := store.GetReplay(selected)
		if err != nil {
			logger.Warn("cannot load replay", "id", selected, "error", err)
			continue
		}
		if err := tui.RunPlayback(rec, cfg, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
	}
}
