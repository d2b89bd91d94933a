package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/tui/styles"
)

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{"q, Ctrl+C", "Quit"},
		{"?", "Toggle help"},
		{"1-9, Tab", "Switch view"},
		{"/", "Search"},
		{"Ctrl+R", "Refresh"},
	}},
	{"Playback", [][2]string{
		{"Space", "Play/Pause"},
		{"n / p", "Next / previous track"},
		{"+ / -", "Volume up / down"},
		{", / .", "Seek back / forward 10s"},
		{"s", "Toggle shuffle"},
		{"r", "Cycle repeat"},
	}},
	{"Library", [][2]string{
		{"Enter", "Open playlist / play track"},
		{"f", "Filter"},
		{"o", "Cycle sort order"},
		{"l", "Like / unlike"},
		{"a", "Add to playlist"},
		{"x", "Remove from playlist"},
		{"Ctrl+Q", "Add to queue"},
		{"Esc", "Back"},
	}},
	{"Other views", [][2]string{
		{"←/→", "Stats range, zen column"},
		{"Enter", "Transfer, play from queue, watch"},
		{"d", "Set default device (★)"},
		{"c / f / L / x", "Video filters"},
		{"o", "Open zen wallpaper"},
	}},
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("tempo - Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, s := range helpSections {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString("  ")
			b.WriteString(styles.Highlight.Width(16).Render(k[0]))
			b.WriteString(k[1])
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("Press ? or Esc to close"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(0, 2).Render(b.String()))
}
