package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/spotify/client"
	"github.com/tessro/tempo/internal/wizard"
)

var (
	playTo       string
	playAlbum    bool
	playPlaylist bool
	playArtist   bool
	playURI      string
	playShuffle  bool
	playPick     bool
)

var playCmd = &cobra.Command{
	Use:   "play [query]",
	Short: "Start or resume playback",
	Long: `Start playback of a track, album, playlist, or artist.
Without arguments, resumes current playback. On a terminal, --pick opens an
interactive search instead.

Examples:
  tempo play                       # Resume playback
  tempo play "bohemian rhapsody"   # Search and play a track
  tempo play --album "abbey road"  # Search and play an album
  tempo play --uri spotify:track:xxx
  tempo play --to "Kitchen"        # Resume on a specific device`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playTo, "to", "", "Target device name or ID")
	playCmd.Flags().BoolVar(&playAlbum, "album", false, "Search for albums")
	playCmd.Flags().BoolVar(&playPlaylist, "playlist", false, "Search for playlists")
	playCmd.Flags().BoolVar(&playArtist, "artist", false, "Search for artists")
	playCmd.Flags().StringVar(&playURI, "uri", "", "Play specific Spotify URI")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "Enable shuffle mode")
	playCmd.Flags().BoolVarP(&playPick, "pick", "p", false, "Pick what to play interactively")
	playCmd.MarkFlagsMutuallyExclusive("album", "playlist", "artist", "uri")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}

	if err := pickTarget(ctx, s, playTo); err != nil {
		return err
	}
	e := s.engine(ctx)

	if playShuffle {
		if err := e.SetShuffle(ctx, true); err != nil {
			logger.Warn("could not enable shuffle", "err", err)
		}
	}

	if playURI != "" {
		return playItem(ctx, e, "uri", playURI, "", playURI)
	}

	query := strings.Join(args, " ")
	if query == "" && playPick {
		return pickAndPlay(ctx, s, e)
	}
	if query == "" {
		if err := e.Play(ctx); err != nil {
			return fmt.Errorf("resume playback: %w", err)
		}
		return report("playing", "▶ Resumed playback", nil)
	}

	return searchAndPlay(ctx, s, e, query)
}

// pickTarget applies --to. With no flag and no single active device, an
// interactive terminal gets a device picker.
func pickTarget(ctx context.Context, s *session, name string) error {
	if name != "" || cfg.Defaults.Device != "" || !wizard.CanPrompt(JSONOutput()) {
		_, err := s.target(ctx, name)
		return err
	}

	devices, err := s.player.GetDevices(ctx)
	if err != nil || len(devices) < 2 || !wizard.NeedsDevice(name, devices) {
		return nil
	}
	d, err := wizard.RunDevicePicker(devices, cfg.Defaults.Device)
	if err != nil {
		return err
	}
	if d != nil {
		s.player.SetDevice(d.ID)
	}
	return nil
}

func pickAndPlay(ctx context.Context, s *session, e *playback.Engine) error {
	if !wizard.IsTerminal() {
		return fmt.Errorf("no query given and not a terminal")
	}
	r, err := wizard.RunSearch(wizard.NewSearchFunc(s.catalog, 10))
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	kind := strings.ToLower(strings.TrimSuffix(r.Kind.String(), "s"))
	return playItem(ctx, e, kind, r.Title, r.Subtitle, r.URI)
}

func searchAndPlay(ctx context.Context, s *session, e *playback.Engine, query string) error {
	switch {
	case playAlbum:
		albums, err := s.catalog.SearchAlbums(ctx, query, 1)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(albums) > 0 {
			a := albums[0]
			return playItem(ctx, e, "album", a.Name, strings.Join(a.Artists, ", "), a.URI)
		}
	case playArtist:
		artists, err := s.catalog.SearchArtists(ctx, query, 1)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(artists) > 0 {
			a := artists[0]
			return playItem(ctx, e, "artist", a.Name, "", a.URI)
		}
	case playPlaylist:
		res, err := s.client.Search(ctx, client.SearchOptions{
			Query:  query,
			Types:  []client.SearchType{client.SearchTypePlaylist},
			Limit:  5,
			Market: cfg.Spotify.Market,
		})
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if res.Playlists != nil {
			for _, p := range res.Playlists.Items {
				if p.URI != "" {
					return playItem(ctx, e, "playlist", p.Name, p.Owner.DisplayName, p.URI)
				}
			}
		}
	default:
		tracks, err := s.catalog.SearchTracks(ctx, query, 1)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(tracks) > 0 {
			t := tracks[0]
			return playItem(ctx, e, "track", t.Title, t.Artist, t.URI)
		}
	}
	return fmt.Errorf("%w: no results for %q", tempoerrors.ErrTrackNotFound, query)
}

func playItem(ctx context.Context, e *playback.Engine, kind, name, artist, uri string) error {
	req := core.PlaySingle(uri)
	if core.IsContextURI(uri) {
		req = core.PlayContext(uri, 0)
	}
	if err := e.Start(ctx, req); err != nil {
		return fmt.Errorf("play %s: %w", kind, err)
	}

	line := fmt.Sprintf("▶ Playing %s: %s", kind, name)
	if artist != "" {
		line += " by " + artist
	}
	fields := map[string]any{"type": kind, "name": name, "uri": uri}
	if artist != "" {
		fields["artist"] = artist
	}
	return report("playing", line, fields)
}
