package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/tui/components"
	"github.com/tessro/tempo/internal/tui/styles"
)

var (
	historyLimit int
	historySince time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show what you played recently",
	Long: `Show recent plays from the local history, newest first. When history is
disabled in the config, Spotify's recently played list is shown instead.`,
	RunE: runHistory,
}

var historyImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import Spotify's recently played list",
	Long:  `Copy the last 50 plays Spotify knows about into the local history. Plays already recorded are skipped.`,
	RunE:  runHistoryImport,
}

var historyTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show your most played tracks",
	Long: `Rank tracks by how often the local history saw them played.

Examples:
  tempo history top --since 168h`,
	RunE: runHistoryTop,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of tracks to show")
	historyTopCmd.Flags().DurationVarP(&historySince, "since", "s", 30*24*time.Hour, "How far back to count")

	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyTopCmd)
	rootCmd.AddCommand(historyCmd)
}

func requireHistory() (*history.Store, error) {
	if cfg.History.Disabled {
		return nil, tempoerrors.WithSuggestion(fmt.Errorf("history is disabled"),
			"Set history.disabled = false in your config")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var entries []history.Entry
	if cfg.History.Disabled {
		s, err := newSession()
		if err != nil {
			return err
		}
		recent, err := s.player.GetRecentlyPlayed(ctx, min(historyLimit, 50))
		if err != nil {
			return fmt.Errorf("recently played: %w", err)
		}
		entries = components.FromRecent(recent)
	} else {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		if entries, err = store.Recent(ctx, historyLimit); err != nil {
			return err
		}
	}

	if JSONOutput() {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println(styles.Dim.Render("Nothing played yet"))
		return nil
	}

	t := NewTable("PLAYED", "TITLE", "ARTIST", "OUTCOME")
	for _, e := range entries {
		t.Row(humanize.Time(e.PlayedAt), styles.Truncate(e.Title, 40), styles.Truncate(e.Artist, 30), string(e.Outcome))
	}
	t.Flush()
	return nil
}

func runHistoryImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := newSession()
	if err != nil {
		return err
	}
	recent, err := s.player.GetRecentlyPlayed(ctx, 50)
	if err != nil {
		return fmt.Errorf("recently played: %w", err)
	}

	n, err := store.Import(ctx, recent)
	if err != nil {
		return err
	}
	return report("imported", fmt.Sprintf("Imported %d plays", n), map[string]any{"imported": n})
}

func runHistoryTop(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	since := time.Now().Add(-historySince)
	top, err := store.TopTracks(cmd.Context(), since, historyLimit)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(top)
	}
	fmt.Printf("%s %s\n\n", styles.Title.Render("Most Played"),
		styles.Muted.Render("since "+humanize.Time(since)))
	if len(top) == 0 {
		fmt.Println(styles.Dim.Render("Nothing played in this period"))
		return nil
	}
	t := NewTable("#", "PLAYS", "TITLE", "ARTIST")
	for i, tc := range top {
		t.Row(fmt.Sprint(i+1), humanize.Comma(int64(tc.Plays)), styles.Truncate(tc.Title, 40), styles.Truncate(tc.Artist, 30))
	}
	t.Flush()
	return nil
}
