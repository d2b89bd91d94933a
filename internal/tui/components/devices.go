package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// Devices displays available playback devices
type Devices struct {
	selected int
}

// NewDevices creates a new Devices component
func NewDevices() *Devices {
	return &Devices{}
}

// SelectNext selects the next device
func (d *Devices) SelectNext(n int) {
	if d.selected < n-1 {
		d.selected++
	}
}

// SelectPrev selects the previous device
func (d *Devices) SelectPrev() {
	if d.selected > 0 {
		d.selected--
	}
}

// Selected returns the selected device, or nil when devices is empty.
func (d *Devices) Selected(devices []core.Device) *core.Device {
	if len(devices) == 0 {
		return nil
	}
	d.selected = min(max(d.selected, 0), len(devices)-1)
	return &devices[d.selected]
}

// Render renders the devices panel. The device named defaultName is starred.
func (d *Devices) Render(devices []core.Device, defaultName string, width, height int, focused bool) string {
	title := styles.PanelTitle("Devices", focused)

	var content string
	if len(devices) == 0 {
		content = styles.Muted.Render("No devices found. Open Spotify on a phone, computer or speaker.")
	} else {
		content = d.renderDevices(devices, defaultName, height-4, focused)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (d *Devices) renderDevices(devices []core.Device, defaultName string, maxLines int, focused bool) string {
	d.Selected(devices)

	lines := make([]string, 0, len(devices))
	for i, device := range devices {
		selector := "  "
		name := device.Name
		if focused && i == d.selected {
			selector = "▸ "
			name = styles.Highlight.Render(name)
		}

		suffix := ""
		if device.IsActive {
			suffix += styles.Playing.Render(" ●")
		}
		if defaultName != "" && device.Name == defaultName {
			suffix += styles.Paused.Render(" ★")
		}
		if device.IsRestricted {
			suffix += styles.Dim.Render(" (restricted)")
		}

		lines = append(lines, fmt.Sprintf("%s%s %s%s", selector, device.Icon(), name, suffix))
		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
