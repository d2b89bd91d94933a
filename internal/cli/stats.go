package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/stats"
	"github.com/tessro/tempo/internal/tui/styles"
)

var (
	statsRange string
	statsLimit int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your top artists, tracks and genres",
	Long: `Show your most played artists and tracks and the genres they add up to.

Ranges:
  short    Last 4 weeks
  medium   Last 6 months (default)
  long     All time`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsRange, "range", "r", "medium", "Time range: short, medium, long")
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "l", 10, "Artists and tracks to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	r, ok := core.ParseTimeRange(statsRange)
	if !ok {
		return fmt.Errorf("unknown range %q: use short, medium or long", statsRange)
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	o, err := stats.Fetch(cmd.Context(), s.catalog, r)
	if err != nil {
		return err
	}
	if statsLimit > 0 {
		o.Artists = o.Artists[:min(statsLimit, len(o.Artists))]
		o.Tracks = o.Tracks[:min(statsLimit, len(o.Tracks))]
	}

	if JSONOutput() {
		return printJSON(o)
	}

	fmt.Println(styles.Title.Render("Your Top Music") + "  " + styles.Muted.Render(r.Label()))

	fmt.Println()
	fmt.Println(styles.Label.Render("Genres"))
	if len(o.Genres) == 0 {
		fmt.Println(styles.Dim.Render("  No genre data"))
	}
	for _, g := range o.Genres {
		fmt.Printf("  %-24s %s %3d%%\n", styles.Truncate(g.Name, 24), Bar(float64(g.Percentage), 20), g.Percentage)
	}

	fmt.Println()
	fmt.Println(styles.Label.Render("Artists"))
	t := NewTable()
	for i, a := range o.Artists {
		t.Row(fmt.Sprintf("  %2d.", i+1), a.Name, styles.Dim.Render(humanize.Comma(int64(a.Followers))+" followers"))
	}
	t.Flush()

	fmt.Println()
	fmt.Println(styles.Label.Render("Tracks"))
	t = NewTable()
	for i, tr := range o.Tracks {
		t.Row(fmt.Sprintf("  %2d.", i+1), tr.Title, styles.Dim.Render(tr.Artist))
	}
	t.Flush()
	return nil
}
