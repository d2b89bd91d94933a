package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// NowPlaying is the bar pinned to the bottom of the dashboard.
type NowPlaying struct {
	// Accent is the dominant colour of the current album art.
	Accent string
	// Lyric is the synced line for the current position, if any.
	Lyric string
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the bar at the given width.
func (n *NowPlaying) Render(state *core.PlaybackState, width int) string {
	inner := max(width-4, 20)

	var content string
	if !state.HasTrack() {
		content = styles.Muted.Render("No track playing")
	} else {
		content = n.renderTrack(state, inner)
	}

	return styles.Panel(false).Width(width - 2).Render(content)
}

func (n *NowPlaying) renderTrack(state *core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.IsPlaying)
	badge := styles.Accent(n.Accent).Render(" ♪ ")
	title := styles.Title.Render(styles.Truncate(track.Title, width/2))
	artist := styles.Subtitle.Render(styles.Truncate(track.Artist, width/3))
	head := fmt.Sprintf("%s %s %s %s", badge, icon, title, artist)

	// Times on either side of the bar.
	current := core.FormatDuration(state.Progress)
	total := core.FormatDuration(track.Duration)
	barWidth := max(width-len(current)-len(total)-2, 10)
	progress := fmt.Sprintf("%s %s %s", styles.Dim.Render(current),
		styles.ProgressBar(state.ProgressPercent(), barWidth), styles.Dim.Render(total))

	lines := []string{head, progress, n.renderStatus(state)}
	if n.Lyric != "" {
		lines = append(lines, styles.Highlight.Render("♫ "+styles.Truncate(n.Lyric, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (n *NowPlaying) renderStatus(state *core.PlaybackState) string {
	var parts []string
	if state.Device != nil {
		parts = append(parts, fmt.Sprintf("%s %s", state.Device.Icon(), state.Device.Name))
	}
	parts = append(parts, fmt.Sprintf("🔊 %d%%", state.Volume))

	shuffle := styles.Dim.Render("⤮ off")
	if state.Shuffle {
		shuffle = styles.Playing.Render("⤮ on")
	}
	parts = append(parts, shuffle)

	repeat := styles.Dim.Render("↻ off")
	switch state.Repeat {
	case core.RepeatContext:
		repeat = styles.Playing.Render("↻ all")
	case core.RepeatTrack:
		repeat = styles.Playing.Render("↻ one")
	}
	parts = append(parts, repeat)

	return styles.Muted.Render(strings.Join(parts, "  "))
}
