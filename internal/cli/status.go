package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows the track, progress, device and modes of the current playback.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	state, err := s.player.GetState(cmd.Context())
	if err != nil {
		return fmt.Errorf("get playback state: %w", err)
	}

	if !state.HasTrack() {
		if JSONOutput() {
			return printJSON(map[string]any{
				"playing": false,
				"message": "No active playback",
			})
		}
		fmt.Println("No active playback")
		return nil
	}

	if JSONOutput() {
		return printJSON(statusJSON(state))
	}
	printStatus(state)
	return nil
}

func statusJSON(s *core.PlaybackState) map[string]any {
	out := map[string]any{
		"is_playing":       s.IsPlaying,
		"volume":           s.Volume,
		"shuffle":          s.Shuffle,
		"repeat":           string(s.Repeat),
		"track":            trackJSON(s.Track),
		"progress":         s.Progress.String(),
		"progress_percent": s.ProgressPercent(),
	}
	if s.ContextURI != "" {
		out["context_uri"] = s.ContextURI
	}
	if s.Device != nil {
		out["device"] = map[string]any{
			"id":        s.Device.ID,
			"name":      s.Device.Name,
			"type":      s.Device.Type,
			"is_active": s.Device.IsActive,
		}
	}
	return out
}

func printStatus(s *core.PlaybackState) {
	fmt.Printf("%s %s\n", styles.StatusIcon(s.IsPlaying), styles.Title.Render(s.Track.Title))
	fmt.Printf("  %s - %s\n", s.Track.Artist, styles.Muted.Render(s.Track.Album))
	fmt.Printf("  %s %s / %s\n",
		FormatProgress(s.Progress, s.Track.Duration, 30),
		core.FormatDuration(s.Progress),
		core.FormatDuration(s.Track.Duration))

	var modes string
	if s.Shuffle {
		modes += "  🔀"
	}
	switch s.Repeat {
	case core.RepeatContext:
		modes += "  🔁"
	case core.RepeatTrack:
		modes += "  🔂"
	}

	if s.Device != nil {
		fmt.Printf("  %s %s (🔊 %d%%)%s\n", s.Device.Icon(), s.Device.Name, s.Volume, modes)
	} else if modes != "" {
		fmt.Println(" " + modes)
	}
}
