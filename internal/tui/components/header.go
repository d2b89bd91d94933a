package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/tui/styles"
)

// Greeting returns the salutation for an hour of the day.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Header renders the greeting line and the view tabs.
func Header(name string, now time.Time, tabs []string, active, width int) string {
	greeting := Greeting(now.Hour())
	if name != "" {
		greeting += ", " + name
	}

	var b strings.Builder
	for i, tab := range tabs {
		if i == active {
			b.WriteString(styles.ActiveTab.Render(tab))
		} else {
			b.WriteString(styles.Tab.Render(tab))
		}
	}

	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Highlight.Render(greeting),
		b.String(),
	))
}
