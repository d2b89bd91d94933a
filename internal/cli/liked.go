package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/tui/styles"
)

var (
	likedLimit int
	likedSort  string
)

var likedCmd = &cobra.Command{
	Use:   "liked",
	Short: "List your liked songs",
	Long:  `List your saved tracks, newest first unless --sort says otherwise.`,
	RunE:  runLiked,
}

var likedSaveCmd = &cobra.Command{
	Use:   "save [track]",
	Short: "Like a track",
	Long:  `Save a track to your library. Without a track, the current one is saved.`,
	RunE:  runLikedSave,
}

var likedRemoveCmd = &cobra.Command{
	Use:   "remove [track]",
	Short: "Unlike a track",
	Long:  `Remove a track from your library. Without a track, the current one is removed.`,
	RunE:  runLikedRemove,
}

var likedCheckCmd = &cobra.Command{
	Use:   "check [track...]",
	Short: "Check whether tracks are liked",
	Long:  `Check whether tracks, given as URIs or IDs, are in your library. Without arguments the current track is checked.`,
	RunE:  runLikedCheck,
}

func init() {
	likedCmd.Flags().IntVarP(&likedLimit, "limit", "l", 50, "Maximum number of tracks to show (0 for all)")
	likedCmd.Flags().StringVarP(&likedSort, "sort", "s", "", "Sort by: default, title, artist, album, duration, added")

	likedCmd.AddCommand(likedSaveCmd)
	likedCmd.AddCommand(likedRemoveCmd)
	likedCmd.AddCommand(likedCheckCmd)
	rootCmd.AddCommand(likedCmd)
}

func runLiked(cmd *cobra.Command, args []string) error {
	order, ok := library.ParseSortOrder(likedSort)
	if !ok {
		return fmt.Errorf("unknown sort order %q", likedSort)
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	tracks, err := s.library().Tracks(cmd.Context(), core.LikedSongs(0))
	if err != nil {
		return err
	}
	tracks = library.Sort(tracks, order)
	total := len(tracks)
	if likedLimit > 0 && len(tracks) > likedLimit {
		tracks = tracks[:likedLimit]
	}

	if JSONOutput() {
		return printJSON(map[string]any{"tracks": tracksJSON(tracks), "total": total})
	}

	fmt.Printf("%s %s\n\n", styles.Title.Render("Liked Songs"), styles.Muted.Render(fmt.Sprintf("%d tracks", total)))
	printTracks(tracks)
	if total > len(tracks) {
		fmt.Printf("\n... and %d more tracks\n", total-len(tracks))
	}
	return nil
}

func runLikedSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession()
	if err != nil {
		return err
	}
	t, err := resolveTrack(ctx, s, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if err := s.library().AddTrack(ctx, core.LikedSongsID, t.URI); err != nil {
		return fmt.Errorf("save track: %w", err)
	}
	return report("saved", "♥ Liked "+trackLabel(t), map[string]any{"uri": t.URI})
}

func runLikedRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession()
	if err != nil {
		return err
	}
	t, err := resolveTrack(ctx, s, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if err := s.catalog.Unsave(ctx, t.ID); err != nil {
		return fmt.Errorf("remove saved track: %w", err)
	}
	return report("removed", "♡ Unliked "+trackLabel(t), map[string]any{"uri": t.URI})
}

func runLikedCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession()
	if err != nil {
		return err
	}

	var tracks []*core.Track
	if len(args) == 0 {
		args = []string{""}
	}
	for _, a := range args {
		if a != "" && !core.IsTrackURI(a) && len(a) != 22 {
			return fmt.Errorf("%q is not a track URI or ID", a)
		}
		t, err := resolveTrack(ctx, s, a)
		if err != nil {
			return err
		}
		tracks = append(tracks, t)
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	fav := s.library().Favorites
	if err := fav.Refresh(ctx, ids); err != nil {
		return err
	}

	if JSONOutput() {
		out := make([]map[string]any, len(tracks))
		for i, t := range tracks {
			out[i] = map[string]any{"uri": t.URI, "liked": fav.IsLiked(t.ID)}
		}
		return printJSON(out)
	}
	for _, t := range tracks {
		mark := "♡"
		if fav.IsLiked(t.ID) {
			mark = "♥"
		}
		fmt.Printf("%s %s\n", mark, trackLabel(t))
	}
	return nil
}
