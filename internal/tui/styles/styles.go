// Package styles holds the dashboard palette and the lipgloss styles built
// from it. Call Use to switch themes; the exported styles are rebuilt.
package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/artwork"
)

const (
	roleAccent = iota
	rolePlaying
	rolePaused
	roleError
	roleInfo
	roleText
	roleMuted
	roleDim
	roleBorder
	roleSurface
	numRoles
)

type swatch [numRoles]string

func flavor(theme string) swatch {
	switch theme {
	case "latte":
		f := catppuccin.Latte
		return swatch{f.Mauve().Hex, f.Green().Hex, f.Peach().Hex, f.Red().Hex, f.Blue().Hex,
			f.Text().Hex, f.Subtext0().Hex, f.Overlay0().Hex, f.Surface2().Hex, f.Surface0().Hex}
	case "frappe":
		f := catppuccin.Frappe
		return swatch{f.Mauve().Hex, f.Green().Hex, f.Peach().Hex, f.Red().Hex, f.Blue().Hex,
			f.Text().Hex, f.Subtext0().Hex, f.Overlay0().Hex, f.Surface2().Hex, f.Surface0().Hex}
	case "macchiato":
		f := catppuccin.Macchiato
		return swatch{f.Mauve().Hex, f.Green().Hex, f.Peach().Hex, f.Red().Hex, f.Blue().Hex,
			f.Text().Hex, f.Subtext0().Hex, f.Overlay0().Hex, f.Surface2().Hex, f.Surface0().Hex}
	default:
		f := catppuccin.Mocha
		return swatch{f.Mauve().Hex, f.Green().Hex, f.Peach().Hex, f.Red().Hex, f.Blue().Hex,
			f.Text().Hex, f.Subtext0().Hex, f.Overlay0().Hex, f.Surface2().Hex, f.Surface0().Hex}
	}
}

// Colors. "auto" picks latte or mocha from the terminal background.
var (
	Primary   lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Info      lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Surface   lipgloss.TerminalColor

	SpotifyGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	ErrorText lipgloss.Style
	Selected  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

var current = "mocha"

func init() {
	Use(current)
}

// Theme returns the active theme name.
func Theme() string {
	return current
}

// Use switches the palette. Unknown names fall back to mocha.
func Use(theme string) {
	var colors [numRoles]lipgloss.TerminalColor
	if theme == "auto" {
		light, dark := flavor("latte"), flavor("mocha")
		for i := range colors {
			colors[i] = lipgloss.AdaptiveColor{Light: light[i], Dark: dark[i]}
		}
	} else {
		sw := flavor(theme)
		for i := range colors {
			colors[i] = lipgloss.Color(sw[i])
		}
		switch theme {
		case "latte", "frappe", "macchiato", "mocha":
		default:
			theme = "mocha"
		}
	}
	current = theme

	Primary = colors[roleAccent]
	Success = colors[rolePlaying]
	Warning = colors[rolePaused]
	Error = colors[roleError]
	Info = colors[roleInfo]
	Text = colors[roleText]
	TextMuted = colors[roleMuted]
	TextDim = colors[roleDim]
	Border = colors[roleBorder]
	Surface = colors[roleSurface]

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Selected = lipgloss.NewStyle().Background(Surface)
	Tab = lipgloss.NewStyle().Padding(0, 1).Foreground(TextDim)
	ActiveTab = lipgloss.NewStyle().Padding(0, 1).Bold(true).Background(Primary).Foreground(Surface)

	BorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Primary)
}

// Panel creates a bordered panel, highlighted when focused.
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// Accent styles text on an album-art colour with a readable foreground.
func Accent(hex string) lipgloss.Style {
	if hex == "" {
		return Highlight
	}
	return lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(artwork.Foreground(hex)))
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(percent/100*float64(width)), 0), width)

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Truncate shortens s to max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
