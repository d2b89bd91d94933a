package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/lyrics"
	"github.com/tessro/tempo/internal/tui/styles"
)

var (
	lyricsTrack string
	lyricsAll   bool
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "Show synced lyrics for the current track",
	Long: `Show the lyrics around the current line of the track that is playing.
Lyrics come from the files named in the YouTube catalogue and are cached
after the first download.`,
	RunE: runLyrics,
}

func init() {
	lyricsCmd.Flags().StringVarP(&lyricsTrack, "track", "t", "", "Track ID or URI instead of the current track")
	lyricsCmd.Flags().BoolVarP(&lyricsAll, "all", "a", false, "Print every line")
	rootCmd.AddCommand(lyricsCmd)
}

func runLyrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	yt, err := loadYouTube()
	if err != nil {
		return err
	}
	if yt == nil {
		return tempoerrors.WithSuggestion(tempoerrors.ErrCatalogMissing,
			"Point catalog.youtube in your config at a YouTube catalogue file")
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	var (
		track    *core.Track
		progress time.Duration = -1
	)
	if lyricsTrack != "" {
		if track, err = resolveTrack(ctx, s, lyricsTrack); err != nil {
			return err
		}
	} else {
		state, err := s.player.GetState(ctx)
		if err != nil {
			return fmt.Errorf("get playback state: %w", err)
		}
		if !state.HasTrack() {
			return fmt.Errorf("%w: nothing is playing", tempoerrors.ErrTrackNotFound)
		}
		track, progress = state.Track, state.Progress
	}

	v, ok := yt.Lookup(track.ID)
	if !ok || v.Lyrics == "" {
		return fmt.Errorf("%w for %s", tempoerrors.ErrNoLyrics, trackLabel(track))
	}

	src := lyrics.NewSource(cfg.Lyrics.BaseURL, cfg.Lyrics.CacheDir, lyrics.WithLogger(logger))
	lyr, err := src.Fetch(ctx, v.Lyrics)
	if err != nil {
		if lyrics.IsMissing(err) {
			return fmt.Errorf("%w for %s", tempoerrors.ErrNoLyrics, trackLabel(track))
		}
		return err
	}

	current := lyr.LineAt(progress)

	if JSONOutput() {
		lines := make([]map[string]any, len(lyr.Lines))
		for i, l := range lyr.Lines {
			lines[i] = map[string]any{"time_ms": l.Time.Milliseconds(), "text": l.Text}
		}
		return printJSON(map[string]any{
			"track":   trackJSON(track),
			"current": current,
			"lines":   lines,
		})
	}

	lines, at := lyr.Lines, current
	if !lyricsAll {
		lines, at = lyr.Window(current, 3, 6)
	}
	fmt.Println(styles.Title.Render(trackLabel(track)))
	fmt.Println()
	for i, l := range lines {
		text := fmt.Sprintf("%s  %s", styles.Dim.Render(core.FormatDuration(l.Time)), l.Text)
		if i == at {
			text = fmt.Sprintf("%s  %s", core.FormatDuration(l.Time), styles.Label.Render(l.Text))
		}
		fmt.Println(text)
	}
	return nil
}
