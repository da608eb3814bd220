package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Watch, verify or delete a recording",
	Long: `Work with one recording from the replay journal. The id may be
any unique prefix, as shown by 'tetris replays'.

Examples:
  tetris replay watch 3f2a
  tetris replay verify 3f2a9c10
  tetris replay delete 3f2a`,
}

var replayWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Play a recording back",
	Long: `Re-simulate a recording in the terminal.

Controls:
  P/Space      - Pause
  Right/+      - Faster
  Left/-       - Slower
  Q/Esc        - Quit`,
	Args: cobra.ExactArgs(1),
	Run:  runReplayWatch,
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Re-simulate a recording and check its result",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayVerify,
}

var replayDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a recording",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayDelete,
}

func init() {
	replayCmd.AddCommand(replayWatchCmd)
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayDeleteCmd)
}

// loadReplay resolves an id prefix and loads the full recording, exiting
// on failure.
func loadReplay(store *storage.Store, prefix string) storage.Replay {
	id, err := store.ResolveID(prefix)
	if err == nil {
		var rec storage.Replay
		if rec, err = store.GetReplay(id); err == nil {
			return rec
		}
	}

	switch {
	case errors.Is(err, storage.ErrAmbiguousID):
		fmt.Fprintf(os.Stderr, "Error: id %q matches more than one replay, use a longer prefix\n", prefix)
	case errors.Is(err, storage.ErrReplayNotFound):
		fmt.Fprintf(os.Stderr, "Error: no replay %q\n", prefix)
		fmt.Fprintln(os.Stderr, "Run 'tetris replays' to see recorded games.")
	default:
		fmt.Fprintf(os.Stderr, "Error loading replay: %v\n", err)
	}
	store.Close()
	os.Exit(1)
	return storage.Replay{}
}

func runReplayWatch(_ *cobra.Command, args []string) {
	store := mustOpenStore()
	rec := loadReplay(store, args[0])
	store.Close()

	width, height := terminalSize()
	if err := tui.RunPlayback(rec, loadConfig(), width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReplayVerify(_ *cobra.Command, args []string) {
	store := mustOpenStore()
	rec := loadReplay(store, args[0])
	store.Close()

	res, err := replay.Verify(rec)
	if err != nil {
		logger.Error("replay does not verify",
			"id", rec.ID,
			"error", err,
			"score", res.Snapshot.Score,
			"lines", res.Snapshot.Lines,
			"level", res.Snapshot.Level,
		)
		os.Exit(1)
	}
	if rec.Outcome == replay.OutcomeQuit {
		logger.Warn("recording ends in a quit, not a game over", "id", rec.ID)
	}

	fmt.Printf("Replay %s verified: score %d, level %d, lines %d, %d ticks\n",
		rec.ID, res.Snapshot.Score, res.Snapshot.Level, res.Snapshot.Lines, res.Snapshot.Tick)
}

func runReplayDelete(_ *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	rec := loadReplay(store, args[0])
	if err := store.DeleteReplay(rec.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting replay: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	fmt.Printf("Deleted replay %s\n", rec.ID)
}
