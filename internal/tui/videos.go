package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/catalog"
	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// videoView browses one of the YouTube catalogues with facet filters.
type videoView struct {
	title   string
	videos  []catalog.Video
	options catalog.Options
	filter  catalog.Filter
	cursor  int
}

func newVideoView(title string, videos []catalog.Video) *videoView {
	v := &videoView{
		title:   title,
		videos:  videos,
		options: catalog.BuildOptions(videos),
	}
	v.filter.Reset()
	return v
}

func (v *videoView) visible() []catalog.Video {
	return v.filter.Apply(v.videos)
}

// cycle returns the value after cur in values, wrapping around.
func cycle(values []string, cur string) string {
	if len(values) == 0 {
		return cur
	}
	return values[(slices.Index(values, cur)+1)%len(values)]
}

func (m *Model) videoKey(v *videoView, key string) (tea.Cmd, bool) {
	visible := v.visible()
	switch key {
	case "j", "down":
		v.cursor = min(v.cursor+1, max(len(visible)-1, 0))
	case "k", "up":
		v.cursor = max(v.cursor-1, 0)
	case "c":
		v.filter.Category = cycle(v.options.Categories, v.filter.Category)
		v.cursor = 0
	case "f":
		v.filter.Format = cycle(v.options.Formats, v.filter.Format)
		v.cursor = 0
	case "L":
		v.filter.Language = cycle(v.options.Languages, v.filter.Language)
		v.cursor = 0
	case "x":
		v.filter.Reset()
		v.cursor = 0
	case "enter":
		if v.cursor >= len(visible) || m.app.Open == nil {
			return nil, true
		}
		open, url := m.app.Open, visible[v.cursor].WatchURL()
		return run(func(context.Context) error { return open(url) }), true
	case "t":
		if v.cursor >= len(visible) || visible[v.cursor].TrackID == "" {
			return nil, true
		}
		uri, p := core.TrackURI(visible[v.cursor].TrackID), m.app.Player
		return run(func(ctx context.Context) error {
			return p.Start(ctx, core.PlaySingle(uri))
		}), true
	default:
		return nil, false
	}
	return nil, true
}

func (v *videoView) render(width, height int) string {
	title := styles.Title.Render(v.title)
	if len(v.videos) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			styles.Muted.Render("No videos. Point catalog."+strings.ToLower(v.title)+" in your config at a catalogue file."))
	}

	facets := fmt.Sprintf("category: %s  format: %s  language: %s",
		v.filter.Category, v.filter.Format, v.filter.Language)

	visible := v.visible()
	head := lipgloss.JoinVertical(lipgloss.Left,
		title+"  "+styles.Muted.Render(fmt.Sprintf("%d of %d", len(visible), len(v.videos))),
		styles.Subtitle.Render(facets),
	)
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, "", styles.Muted.Render("Nothing matches"))
	}

	rows := max(height-5, 1)
	start := max(v.cursor-rows+1, 0)
	lines := make([]string, 0, rows)
	for i := start; i < len(visible) && len(lines) < rows; i++ {
		vid := visible[i]
		meta := strings.Join(slices.DeleteFunc([]string{vid.Category, vid.Format, vid.Language},
			func(s string) bool { return s == "" }), " · ")
		line := styles.Truncate(vid.Title, max(width-len(meta)-6, 10))
		if meta != "" {
			line += "  " + styles.Dim.Render(meta)
		}
		if i == v.cursor {
			line = styles.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	help := styles.Dim.Render("enter watch • t play track • c/f/L filter • x reset")
	return lipgloss.JoinVertical(lipgloss.Left, head, "", strings.Join(lines, "\n"), "", help)
}
