package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// DeviceModel is the bubbletea model for the device picker.
type DeviceModel struct {
	devices  []core.Device
	fallback string
	cursor   int
	selected *core.Device
	width    int
	height   int
}

// NewDeviceModel creates a device picker. fallback names the configured
// default device, which is starred. The cursor starts on the active device,
// else on the default.
func NewDeviceModel(devices []core.Device, fallback string) DeviceModel {
	m := DeviceModel{
		devices:  devices,
		fallback: fallback,
		width:    80,
		height:   20,
	}
	m.cursor = m.start()
	return m
}

func (m DeviceModel) start() int {
	for i, d := range m.devices {
		if d.IsActive {
			return i
		}
	}
	for i, d := range m.devices {
		if m.isDefault(d) {
			return i
		}
	}
	return 0
}

func (m DeviceModel) isDefault(d core.Device) bool {
	return m.fallback != "" && (d.ID == m.fallback || strings.EqualFold(d.Name, m.fallback))
}

// Init initializes the model.
func (m DeviceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DeviceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if m.cursor < len(m.devices) {
				m.selected = &m.devices[m.cursor]
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = max(len(m.devices)-1, 0)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m DeviceModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("📱 Select Device"))
	b.WriteString("\n\n")

	if len(m.devices) == 0 {
		b.WriteString(styles.Muted.Render("No devices found"))
		b.WriteString("\n\n")
		b.WriteString(styles.Dim.Render("Make sure Spotify is open on a phone, computer or speaker."))
	} else {
		for i, device := range m.devices {
			var line strings.Builder

			if device.IsActive {
				line.WriteString(styles.Playing.Render("● "))
			} else {
				line.WriteString(styles.Dim.Render("○ "))
			}
			line.WriteString(device.Icon() + " " + device.Name)
			if m.isDefault(device) {
				line.WriteString(" ★")
			}
			line.WriteString(" " + styles.Dim.Render(fmt.Sprintf("(%s, %d%%)", device.Type, device.Volume)))
			if device.IsRestricted {
				line.WriteString(styles.Dim.Render(" restricted"))
			}

			if i == m.cursor {
				b.WriteString(styles.Selected.Render("▸ " + line.String()))
			} else {
				b.WriteString("  " + line.String())
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ navigate • enter select • esc quit"))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("● active  ○ inactive  ★ default"))

	return b.String()
}

// Selected returns the selected device, or nil if none.
func (m DeviceModel) Selected() *core.Device {
	return m.selected
}

// RunDevicePicker runs the device picker and returns the selected device,
// or nil when the user backs out.
func RunDevicePicker(devices []core.Device, fallback string) (*core.Device, error) {
	p := tea.NewProgram(NewDeviceModel(devices, fallback), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(DeviceModel).Selected(), nil
}
