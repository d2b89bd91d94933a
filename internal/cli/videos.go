package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/browser"
	"github.com/tessro/tempo/internal/catalog"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/tui/styles"
)

var (
	videoFilter catalog.Filter
	videoOpen   int
	videoNow    bool
)

var youtubeCmd = &cobra.Command{
	Use:     "youtube",
	Aliases: []string{"yt"},
	Short:   "Browse YouTube links for your tracks",
	Long: `List the YouTube catalogue: music videos and lyric videos linked to
Spotify tracks.

Examples:
  tempo youtube --format 1080p
  tempo youtube --now            # Open the video for the current track
  tempo youtube --open 3`,
	RunE: runYouTube,
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Browse live performances",
	Long:  `List the live performance catalogue, optionally filtered.`,
	RunE:  runLive,
}

func init() {
	for _, c := range []*cobra.Command{youtubeCmd, liveCmd} {
		c.Flags().StringVarP(&videoFilter.Category, "category", "C", catalog.All, "Only this genre or type")
		c.Flags().StringVarP(&videoFilter.Format, "format", "f", catalog.All, "Only this format, e.g. 1080p")
		c.Flags().StringVarP(&videoFilter.Language, "language", "L", catalog.All, "Only this language")
		c.Flags().IntVarP(&videoOpen, "open", "o", 0, "Open the video at this position in the browser")
		rootCmd.AddCommand(c)
	}
	youtubeCmd.Flags().BoolVarP(&videoNow, "now", "n", false, "Open the video for the current track")
}

func runYouTube(cmd *cobra.Command, args []string) error {
	yt, err := loadYouTube()
	if err != nil {
		return err
	}
	if yt == nil {
		return tempoerrors.WithSuggestion(tempoerrors.ErrCatalogMissing,
			"Point catalog.youtube in your config at a YouTube catalogue file")
	}

	if videoNow {
		s, err := newSession()
		if err != nil {
			return err
		}
		t, err := resolveTrack(cmd.Context(), s, "")
		if err != nil {
			return err
		}
		v, ok := yt.Lookup(t.ID)
		if !ok {
			return fmt.Errorf("no video for %s", trackLabel(t))
		}
		return openVideo(v)
	}

	return listVideos("YouTube", yt.Videos())
}

func runLive(cmd *cobra.Command, args []string) error {
	videos, err := loadLive()
	if err != nil {
		return err
	}
	if videos == nil {
		return tempoerrors.WithSuggestion(tempoerrors.ErrCatalogMissing,
			"Point catalog.live in your config at a live catalogue file")
	}
	return listVideos("Live", videos)
}

func listVideos(title string, videos []catalog.Video) error {
	opts := catalog.BuildOptions(videos)
	for _, f := range []struct {
		name, value string
		values      []string
	}{
		{"category", videoFilter.Category, opts.Categories},
		{"format", videoFilter.Format, opts.Formats},
		{"language", videoFilter.Language, opts.Languages},
	} {
		if !slices.Contains(f.values, f.value) {
			return fmt.Errorf("unknown %s %q: choose from %s", f.name, f.value, strings.Join(f.values, ", "))
		}
	}

	visible := videoFilter.Apply(videos)

	if videoOpen > 0 {
		if videoOpen > len(visible) {
			return fmt.Errorf("only %d videos match", len(visible))
		}
		return openVideo(visible[videoOpen-1])
	}

	if JSONOutput() {
		out := make([]map[string]any, len(visible))
		for i, v := range visible {
			out[i] = map[string]any{
				"title":     v.Title,
				"category":  v.Category,
				"format":    v.Format,
				"language":  v.Language,
				"url":       v.WatchURL(),
				"thumbnail": v.Thumbnail(),
			}
			if v.TrackID != "" {
				out[i]["track_id"] = v.TrackID
			}
		}
		return printJSON(out)
	}

	fmt.Printf("%s %s\n\n", styles.Title.Render(title),
		styles.Muted.Render(fmt.Sprintf("%d of %d", len(visible), len(videos))))
	t := NewTable("#", "TITLE", "CATEGORY", "FORMAT", "LANGUAGE")
	for i, v := range visible {
		t.Row(fmt.Sprint(i+1), styles.Truncate(v.Title, 50), v.Category, v.Format, v.Language)
	}
	t.Flush()
	return nil
}

func openVideo(v catalog.Video) error {
	url := v.WatchURL()
	if err := browser.Open(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return report("opened", "▶ Opened "+v.Title, map[string]any{"url": url})
}
