package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/tui/styles"
)

// History displays recently played tracks
type History struct {
	offset int
	now    func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// ScrollDown scrolls the list down.
func (h *History) ScrollDown(n int) {
	if h.offset < n-1 {
		h.offset++
	}
}

// ScrollUp scrolls the list up.
func (h *History) ScrollUp() {
	if h.offset > 0 {
		h.offset--
	}
}

// Render renders the history panel
func (h *History) Render(entries []history.Entry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (h *History) renderHistory(entries []history.Entry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)
	now := h.now()

	if h.offset >= len(entries) {
		h.offset = 0
	}
	for _, entry := range entries[h.offset:] {
		if len(lines) >= maxLines {
			break
		}

		ago := humanize.RelTime(entry.PlayedAt, now, "ago", "from now")
		info := trackLine(core.Track{Title: entry.Title, Artist: entry.Artist}, width-len(ago)-3)
		pad := max(width-2-lipgloss.Width(info)-len(ago), 1)

		lines = append(lines, fmt.Sprintf("%s %s%*s%s",
			styles.Dim.Render(OutcomeIcon(entry.Outcome)),
			info,
			pad, "",
			styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// OutcomeIcon marks how a play ended.
func OutcomeIcon(o history.Outcome) string {
	switch o {
	case history.Skipped:
		return "⏭"
	case history.Completed:
		return "✓"
	default:
		return "♪"
	}
}

// FromRecent converts the player's recently played list for display.
func FromRecent(recent []core.HistoryEntry) []history.Entry {
	entries := make([]history.Entry, 0, len(recent))
	for _, r := range recent {
		if r.Track == nil {
			continue
		}
		entries = append(entries, history.NewEntry(r.Track, r.PlayedAt, history.Played))
	}
	return entries
}
