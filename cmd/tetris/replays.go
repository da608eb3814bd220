package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var flagLimit int

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded games",
	Long: `Display the most recent recordings in the replay journal, newest
first, followed by journal totals.

Ids may be shortened to any unique prefix in the replay commands.

Examples:
  tetris replays
  tetris replays --limit 50`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of replays to show")
}

func runReplays(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	replays, err := store.ListReplays(tetris.ID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving replays: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Replays")
	fmt.Println()

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tetris play' to record one!")
		return
	}

	fmt.Printf("  %-8s  %-8s  %-5s  %-5s  %-9s  %-8s  %s\n", "ID", "Score", "Level", "Lines", "Outcome", "Length", "Date")
	fmt.Printf("  %-8s  %-8s  %-5s  %-5s  %-9s  %-8s  %s\n", "--", "-----", "-----", "-----", "-------", "------", "----")

	for _, r := range replays {
		fmt.Printf("  %-8s  %-8d  %-5d  %-5d  %-9s  %-8s  %s\n",
			r.ID[:min(8, len(r.ID))],
			r.Score, r.Level, r.Lines, r.Outcome,
			gameLength(r.Ticks, r.TickRate),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	stats, err := store.GetStats(tetris.ID)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Games: %d  Lines: %d  Played: %s\n",
		stats.Games, stats.TotalLines, gameLength(stats.TotalTicks, flagFPS))
}

// gameLength converts a tick count to wall-clock duration at the given rate.
func gameLength(ticks uint64, tickRate int) time.Duration {
	if tickRate <= 0 {
		return 0
	}
	return (time.Duration(ticks) * time.Second / time.Duration(tickRate)).Round(time.Second)
}
