package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/tui/styles"
	"github.com/tessro/tempo/internal/zen"
)

const (
	zenSongs = iota
	zenWallpapers
)

// zenView picks a soundtrack to loop and a wallpaper to go with it. The
// session starts with the first pick and ends when the view is left.
type zenView struct {
	cat     *zen.Catalogue
	session *zen.Session
	column  int
	cursors [2]int
}

func newZenView(cat *zen.Catalogue) *zenView {
	return &zenView{cat: cat}
}

func (z *zenView) ensureSession(m *Model) *zen.Session {
	if z.session == nil {
		z.session = zen.NewSession(z.cat, m.app.Player, m.app.ZenDelay, m.log)
	}
	return z.session
}

// leave ends the session, turning repeat back off.
func (z *zenView) leave() tea.Cmd {
	if z.session == nil {
		return nil
	}
	s := z.session
	z.session = nil
	return run(s.Close)
}

func (z *zenView) size() int {
	if z.column == zenSongs {
		return len(z.cat.Songs)
	}
	return len(z.cat.Wallpapers)
}

func (m *Model) zenKey(key string) (tea.Cmd, bool) {
	z := m.zen
	if z.cat == nil {
		return nil, false
	}

	cur := &z.cursors[z.column]
	switch key {
	case "w", "h", "l", "left", "right":
		if len(z.cat.Wallpapers) > 0 {
			z.column = 1 - z.column
		}
	case "j", "down":
		*cur = min(*cur+1, max(z.size()-1, 0))
	case "k", "up":
		*cur = max(*cur-1, 0)
	case "enter":
		s := z.ensureSession(m)
		i := *cur
		if z.column == zenSongs {
			return run(func(ctx context.Context) error { return s.Select(ctx, i) }), true
		}
		if err := s.SelectWallpaper(i); err != nil {
			return m.showError(err), true
		}
	case "o":
		if z.session == nil || m.app.Open == nil {
			return nil, true
		}
		if _, w, ok := z.session.Wallpaper(); ok && w.URL != "" {
			open, url := m.app.Open, w.URL
			return run(func(context.Context) error { return open(url) }), true
		}
	default:
		return nil, false
	}
	return nil, true
}

func (z *zenView) render(width, height int) string {
	title := styles.Title.Render("Zen")
	if z.cat == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			styles.Muted.Render("No zen catalogue found. Set catalog.zen in your config."))
	}

	song, wall := -1, -1
	status := styles.Muted.Render("Pick a song to start looping")
	if z.session != nil {
		if z.session.Started() {
			if i, s, ok := z.session.Song(); ok {
				song = i
				status = styles.Playing.Render("∞ " + s.Name)
			}
		}
		if j, w, ok := z.session.Wallpaper(); ok {
			wall = j
			status += styles.Dim.Render("  •  " + w.Name)
		}
	}

	colW := max(width/2-2, 20)
	rows := max(height-5, 1)
	songs := make([]string, len(z.cat.Songs))
	for i, s := range z.cat.Songs {
		songs[i] = s.Name
	}
	walls := make([]string, len(z.cat.Wallpapers))
	for i, w := range z.cat.Wallpapers {
		walls[i] = w.Name
	}

	col := lipgloss.NewStyle().Width(colW).MarginRight(2)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		col.Render(zenColumn("Songs", songs, z.cursors[zenSongs], song, rows, colW, z.column == zenSongs)),
		col.Render(zenColumn("Wallpapers", walls, z.cursors[zenWallpapers], wall, rows, colW, z.column == zenWallpapers)),
	)

	help := styles.Dim.Render("enter select • w switch column • o open wallpaper")
	return lipgloss.JoinVertical(lipgloss.Left, title, status, "", body, "", help)
}

func zenColumn(title string, items []string, cursor, chosen, rows, width int, focused bool) string {
	lines := []string{styles.PanelTitle(title, focused)}
	if len(items) == 0 {
		return strings.Join(append(lines, styles.Dim.Render("None")), "\n")
	}
	start := max(cursor-rows+1, 0)
	for i := start; i < len(items) && i-start < rows; i++ {
		mark := "  "
		if i == chosen {
			mark = "✓ "
		}
		line := mark + styles.Truncate(items[i], width-4)
		if i == cursor && focused {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
