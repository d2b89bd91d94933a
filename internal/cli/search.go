package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/tui/styles"
	"github.com/tessro/tempo/internal/wizard"
)

var (
	searchType  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the Spotify catalogue",
	Long: `Search for tracks, albums and artists.

Examples:
  tempo search "daft punk"
  tempo search --type album "discovery"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "all", "What to search for: all, track, album, artist")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 5, "Results per type")
	rootCmd.AddCommand(searchCmd)
}

func parseSearchKind(s string) (wizard.SearchKind, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return wizard.SearchAll, nil
	case "track", "tracks":
		return wizard.SearchTracks, nil
	case "album", "albums":
		return wizard.SearchAlbums, nil
	case "artist", "artists":
		return wizard.SearchArtists, nil
	}
	return 0, fmt.Errorf("unknown search type %q", s)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, err := parseSearchKind(searchType)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := wizard.NewSearchFunc(s.catalog, searchLimit)(cmd.Context(), query, kind)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if JSONOutput() {
		out := make([]map[string]any, len(results))
		for i, r := range results {
			out[i] = map[string]any{
				"kind":     strings.ToLower(r.Kind.String()),
				"id":       r.ID,
				"uri":      r.URI,
				"title":    r.Title,
				"subtitle": r.Subtitle,
			}
		}
		return printJSON(out)
	}

	if len(results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}

	t := NewTable("KIND", "TITLE", "BY", "URI")
	for _, r := range results {
		t.Row(r.Kind.String(), styles.Truncate(r.Title, 40), styles.Truncate(r.Subtitle, 30), r.URI)
	}
	t.Flush()
	return nil
}
