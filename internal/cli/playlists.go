package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/tui/styles"
	"github.com/tessro/tempo/internal/wizard"
)

var (
	tracksSort   string
	tracksFilter string
	tracksPlay   bool
	removeYes    bool
)

var playlistsCmd = &cobra.Command{
	Use:     "playlists",
	Aliases: []string{"pl"},
	Short:   "List your playlists",
	Long:    `List Liked Songs and the playlists in your library.`,
	RunE:    runPlaylists,
}

var playlistsTracksCmd = &cobra.Command{
	Use:   "tracks <playlist>",
	Short: "List the tracks of a playlist",
	Long: `List the tracks of a playlist, given by ID or name. "Liked Songs" lists
your saved tracks.

Examples:
  tempo playlists tracks "Liked Songs" --sort added
  tempo playlists tracks roadtrip --filter queen --play`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlaylistsTracks,
}

var playlistsAddCmd = &cobra.Command{
	Use:   "add <playlist> [track]",
	Short: "Add a track to a playlist",
	Long: `Add a track to a playlist. The track is a URI, an ID or a search query;
without one, the current track is added.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlaylistsAdd,
}

var playlistsRemoveCmd = &cobra.Command{
	Use:   "remove <playlist> [track]",
	Short: "Remove a track from a playlist",
	Long: `Remove a track from a playlist. The track is a URI, an ID or a search
query; without one, the current track is removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlaylistsRemove,
}

func init() {
	playlistsTracksCmd.Flags().StringVarP(&tracksSort, "sort", "s", "", "Sort by: default, title, artist, album, duration, added")
	playlistsTracksCmd.Flags().StringVarP(&tracksFilter, "filter", "f", "", "Only tracks matching this term")
	playlistsTracksCmd.Flags().BoolVar(&tracksPlay, "play", false, "Play the listed tracks")

	playlistsRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Do not ask for confirmation")

	playlistsCmd.AddCommand(playlistsTracksCmd)
	playlistsCmd.AddCommand(playlistsAddCmd)
	playlistsCmd.AddCommand(playlistsRemoveCmd)
	rootCmd.AddCommand(playlistsCmd)
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	playlists, err := s.library().Playlists(cmd.Context())
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(playlists)
	}

	t := NewTable("NAME", "TRACKS", "OWNER", "ID")
	for _, p := range playlists {
		t.Row(styles.Truncate(p.Name, 40), humanize.Comma(int64(p.TrackCount)), p.Owner, p.ID)
	}
	t.Flush()
	return nil
}

// findPlaylist matches by ID, then case-insensitive name, then partial name.
func findPlaylist(playlists []core.Playlist, nameOrID string) (core.Playlist, error) {
	for _, p := range playlists {
		if p.ID == nameOrID || p.URI == nameOrID {
			return p, nil
		}
	}
	lower := strings.ToLower(nameOrID)
	for _, p := range playlists {
		if strings.ToLower(p.Name) == lower {
			return p, nil
		}
	}
	for _, p := range playlists {
		if strings.Contains(strings.ToLower(p.Name), lower) {
			return p, nil
		}
	}
	return core.Playlist{}, fmt.Errorf("%w: %q", tempoerrors.ErrPlaylistNotFound, nameOrID)
}

func openPlaylist(ctx context.Context, lib *library.Library, nameOrID string) (*library.TrackList, error) {
	playlists, err := lib.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	p, err := findPlaylist(playlists, nameOrID)
	if err != nil {
		return nil, err
	}
	return lib.Open(ctx, p)
}

func runPlaylistsTracks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	order := library.SortOrder(cfg.Library.Sort)
	if tracksSort != "" {
		o, ok := library.ParseSortOrder(tracksSort)
		if !ok {
			return fmt.Errorf("unknown sort order %q", tracksSort)
		}
		order = o
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	lib := s.library()

	list, err := openPlaylist(ctx, lib, strings.Join(args, " "))
	if err != nil {
		return err
	}
	tracks := library.Sort(library.Filter(list.Tracks(), tracksFilter), order)

	if tracksPlay {
		// A filtered or reordered list no longer matches the playlist, so
		// it plays as a plain track list.
		contextURI := list.ContextURI()
		if tracksFilter != "" || order != library.SortDefault {
			contextURI = ""
		}
		if len(tracks) == 0 {
			return fmt.Errorf("nothing to play")
		}
		e := s.engine(ctx)
		if err := e.PlayList(ctx, contextURI, tracks, "", 0); err != nil {
			return fmt.Errorf("play %s: %w", list.Playlist.Name, err)
		}
		return report("playing", fmt.Sprintf("▶ Playing %s (%d tracks)", list.Playlist.Name, len(tracks)),
			map[string]any{"playlist": list.Playlist.Name, "tracks": len(tracks)})
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"playlist": list.Playlist,
			"tracks":   tracksJSON(tracks),
		})
	}

	fmt.Printf("%s %s\n\n", styles.Title.Render(list.Playlist.Name),
		styles.Muted.Render(fmt.Sprintf("%d tracks", len(tracks))))
	printTracks(tracks)
	return nil
}

// resolveTrack turns a URI, an ID or a search query into a track. An empty
// argument means the track that is playing now.
func resolveTrack(ctx context.Context, s *session, arg string) (*core.Track, error) {
	switch {
	case arg == "":
		state, err := s.player.GetState(ctx)
		if err != nil {
			return nil, fmt.Errorf("get playback state: %w", err)
		}
		if !state.HasTrack() {
			return nil, fmt.Errorf("%w: nothing is playing", tempoerrors.ErrTrackNotFound)
		}
		return state.Track, nil
	case core.IsTrackURI(arg):
		id := arg[strings.LastIndexByte(arg, ':')+1:]
		return &core.Track{ID: id, URI: arg, Title: arg}, nil
	case len(arg) == 22 && !strings.Contains(arg, " "):
		return &core.Track{ID: arg, URI: core.TrackURI(arg), Title: arg}, nil
	}

	tracks, err := s.catalog.SearchTracks(ctx, arg, 1)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks for %q", tempoerrors.ErrTrackNotFound, arg)
	}
	return &tracks[0], nil
}

func trackLabel(t *core.Track) string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " by " + t.Artist
}

func runPlaylistsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}
	lib := s.library()

	playlists, err := lib.Playlists(ctx)
	if err != nil {
		return err
	}
	p, err := findPlaylist(playlists, args[0])
	if err != nil {
		return err
	}
	t, err := resolveTrack(ctx, s, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	if err := lib.AddTrack(ctx, p.ID, t.URI); err != nil {
		return err
	}
	return report("added", fmt.Sprintf("Added %s to %s", trackLabel(t), p.Name),
		map[string]any{"playlist": p.ID, "uri": t.URI})
}

func runPlaylistsRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}
	lib := s.library()

	list, err := openPlaylist(ctx, lib, args[0])
	if err != nil {
		return err
	}
	t, err := resolveTrack(ctx, s, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if core.IndexOf(list.Tracks(), t.URI) < 0 {
		return fmt.Errorf("%w: %s is not in %s", tempoerrors.ErrTrackNotFound, trackLabel(t), list.Playlist.Name)
	}

	if !removeYes && wizard.CanPrompt(JSONOutput()) {
		title := fmt.Sprintf("Remove %s from %s?", trackLabel(t), list.Playlist.Name)
		if !wizard.Confirm(title, "Remove") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := lib.RemoveTrack(ctx, list, t.URI); err != nil {
		return err
	}
	return report("removed", fmt.Sprintf("Removed %s from %s", trackLabel(t), list.Playlist.Name),
		map[string]any{"playlist": list.Playlist.ID, "uri": t.URI})
}
