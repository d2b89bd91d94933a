package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/stats"
	"github.com/tessro/tempo/internal/tui/styles"
)

const statsRows = 10

type statsView struct {
	rangeIdx int
	loading  bool
	overview *stats.Overview
}

func newStatsView() *statsView {
	// Six months first.
	return &statsView{rangeIdx: 1}
}

func (s *statsView) timeRange() core.TimeRange {
	return core.TimeRanges[s.rangeIdx]
}

func (s *statsView) needsLoad() bool {
	return s.overview == nil || s.overview.Range != s.timeRange()
}

func (s *statsView) set(o *stats.Overview) {
	if o.Range != s.timeRange() {
		return
	}
	s.loading = false
	s.overview = o
}

func (m *Model) statsKey(key string) (tea.Cmd, bool) {
	s := m.stats
	switch key {
	case "h", "left":
		s.rangeIdx = (s.rangeIdx + len(core.TimeRanges) - 1) % len(core.TimeRanges)
	case "l", "right":
		s.rangeIdx = (s.rangeIdx + 1) % len(core.TimeRanges)
	default:
		return nil, false
	}
	// A range switch supersedes any load in flight.
	s.loading = true
	return m.fetchStats(s.timeRange()), true
}

func (s *statsView) render(width, height int) string {
	var tabs strings.Builder
	for i, r := range core.TimeRanges {
		if i == s.rangeIdx {
			tabs.WriteString(styles.ActiveTab.Render(r.Label()))
		} else {
			tabs.WriteString(styles.Tab.Render(r.Label()))
		}
	}
	head := lipgloss.JoinVertical(lipgloss.Left, styles.Title.Render("Your Top Music"), tabs.String())

	o := s.overview
	switch {
	case o == nil && s.loading:
		return lipgloss.JoinVertical(lipgloss.Left, head, "", styles.Muted.Render("Loading..."))
	case o == nil:
		return lipgloss.JoinVertical(lipgloss.Left, head, "", styles.Muted.Render("No stats yet"))
	}

	colW := max(width/3-2, 20)
	rows := min(statsRows, max(height-6, 1))

	genres := []string{styles.Label.Render("Genres")}
	if len(o.Genres) == 0 {
		genres = append(genres, styles.Dim.Render("No genre data"))
	}
	for _, g := range o.Genres {
		genres = append(genres,
			styles.Truncate(g.Name, colW),
			styles.ProgressBar(float64(g.Percentage), colW-6)+fmt.Sprintf(" %3d%%", g.Percentage),
		)
	}

	artists := []string{styles.Label.Render("Artists")}
	for i, a := range o.Artists[:min(rows, len(o.Artists))] {
		line := fmt.Sprintf("%2d. %s", i+1, a.Name)
		artists = append(artists,
			styles.Truncate(line, colW),
			styles.Dim.Render("    "+humanize.Comma(int64(a.Followers))+" followers"),
		)
	}

	tracks := []string{styles.Label.Render("Tracks")}
	for i, t := range o.Tracks[:min(rows, len(o.Tracks))] {
		tracks = append(tracks,
			styles.Truncate(fmt.Sprintf("%2d. %s", i+1, t.Title), colW),
			styles.Dim.Render("    "+styles.Truncate(t.Artist, colW-4)),
		)
	}

	col := lipgloss.NewStyle().Width(colW).MarginRight(2)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		col.Render(strings.Join(genres, "\n")),
		col.Render(strings.Join(artists, "\n")),
		col.Render(strings.Join(tracks, "\n")),
	)
	if s.loading {
		head += "  " + styles.Muted.Render("refreshing...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, "", body)
}
