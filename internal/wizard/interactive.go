// Package wizard holds the interactive pickers the CLI falls back to when
// an argument is missing and stdout is a terminal.
package wizard

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tessro/tempo/internal/core"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanPrompt reports whether a command may stop and ask the user. Machine
// output never prompts.
func CanPrompt(jsonOutput bool) bool {
	return !jsonOutput && IsTerminal()
}

// Confirm asks a yes/no question. An aborted prompt counts as no.
func Confirm(title, affirmative string) bool {
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Affirmative(affirmative).
		Negative("Cancel").
		Value(&ok).
		Run()
	return err == nil && ok
}

// NeedsDevice returns true if a device argument is required but missing.
func NeedsDevice(deviceFlag string, devices []core.Device) bool {
	if deviceFlag != "" {
		return false
	}
	return ActiveDevice(devices) == nil
}

// ActiveDevice returns the single active device if there is exactly one.
func ActiveDevice(devices []core.Device) *core.Device {
	var active *core.Device
	for i := range devices {
		if !devices[i].IsActive {
			continue
		}
		if active != nil {
			return nil
		}
		active = &devices[i]
	}
	return active
}
