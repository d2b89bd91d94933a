package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/wizard"
)

var transferPause bool

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists the Spotify Connect devices available to your account.`,
	RunE:  runDevices,
}

var devicesTransferCmd = &cobra.Command{
	Use:   "transfer [device]",
	Short: "Move playback to another device",
	Long: `Move playback to a device by ID or name. Without an argument, a picker
lists the available devices.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDevicesTransfer,
}

func init() {
	devicesTransferCmd.Flags().BoolVar(&transferPause, "pause", false, "Transfer without starting playback")

	devicesCmd.AddCommand(devicesTransferCmd)
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	devices, err := s.player.GetDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("get devices: %w", err)
	}

	if JSONOutput() {
		return printJSON(devices)
	}
	if len(devices) == 0 {
		fmt.Println("No devices found. Open Spotify on a phone, computer or speaker.")
		return nil
	}
	printDevices(devices, cfg.Defaults.Device)
	return nil
}

func printDevices(devices []core.Device, defaultName string) {
	for _, d := range devices {
		marks := ""
		if d.IsActive {
			marks += " " + StatusIcon(true)
		}
		if defaultName != "" && strings.EqualFold(d.Name, defaultName) {
			marks += " ★"
		}
		fmt.Printf("  %s %s%s\n", d.Icon(), d.Name, marks)
		if Verbose() {
			fmt.Printf("      ID: %s\n", d.ID)
			fmt.Printf("      Type: %s\n", d.Type)
			fmt.Printf("      Volume: %d%%\n", d.Volume)
		}
	}
}

func runDevicesTransfer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}
	e := s.engine(ctx)

	devices, err := e.Devices(ctx)
	if err != nil {
		return fmt.Errorf("get devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no devices found")
	}

	var target *core.Device
	if len(args) == 1 {
		target, err = resolveDevice(devices, args[0])
		if err != nil {
			return err
		}
	} else {
		if !wizard.CanPrompt(JSONOutput()) {
			return fmt.Errorf("specify a device name or ID")
		}
		target, err = wizard.RunDevicePicker(devices, cfg.Defaults.Device)
		if err != nil {
			return err
		}
		if target == nil {
			return nil
		}
	}

	if err := e.Transfer(ctx, target.ID, !transferPause); err != nil {
		return fmt.Errorf("transfer playback: %w", err)
	}

	return report("transferred", fmt.Sprintf("%s Playing on %s", target.Icon(), target.Name),
		map[string]any{"device_id": target.ID, "device": target.Name})
}
