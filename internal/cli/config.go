package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/config"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/wizard"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing tempo configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration in effect, with defaults and environment overrides applied.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report("ok", configPath(), map[string]any{"path": configPath()})
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in $VISUAL or $EDITOR.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys are "section.key".

Common keys:
  spotify.client_id   Spotify client ID
  spotify.market      Market for catalogue lookups, e.g. US
  defaults.device     Default playback device name or ID
  defaults.volume     Default volume (0-100)
  library.sort        Default sort: default, title, artist, album, duration, added
  catalog.youtube     YouTube catalogue file
  zen.repeat_delay    Milliseconds before zen mode turns repeat on
  history.disabled    Stop recording play history (true/false)
  tui.theme           latte, frappe, macchiato or mocha

Examples:
  tempo config set defaults.device "MacBook Pro"
  tempo config set defaults.volume 50`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetDeviceCmd = &cobra.Command{
	Use:   "set-device",
	Short: "Interactively select default device",
	Long:  `Shows a picker to select the default playback device.`,
	RunE:  runConfigSetDevice,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetDeviceCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return tempoerrors.WithSuggestion(fmt.Errorf("config file not found at %s", path),
			"Run 'tempo config init' first")
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return tempoerrors.WithSuggestion(errors.New("no editor found"), "Set the EDITOR environment variable")
	}

	c := exec.CommandContext(cmd.Context(), editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "created", "path": path})
	}
	fmt.Printf("Created config file: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set your Spotify client ID in the config file or via TEMPO_SPOTIFY_CLIENT_ID")
	fmt.Println("  2. Run 'tempo auth login' to authenticate with Spotify")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	path := configPath()

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}
	// Reject values the loader would refuse next time.
	c, err := config.LoadFrom(path)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", tempoerrors.ErrInvalidConfig, err)
	}

	return report("updated", fmt.Sprintf("Set %s = %s", key, value),
		map[string]any{"key": key, "value": value, "path": path})
}

func runConfigSetDevice(cmd *cobra.Command, args []string) error {
	if !wizard.IsTerminal() {
		return errors.New("set-device needs a terminal; use 'tempo config set defaults.device <name>'")
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	devices, err := s.player.GetDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("get devices: %w", err)
	}
	if len(devices) == 0 {
		return tempoerrors.WithSuggestion(tempoerrors.ErrDeviceNotFound,
			"Open Spotify on at least one device")
	}

	options := make([]huh.Option[string], 0, len(devices))
	for _, d := range devices {
		label := fmt.Sprintf("%s %s", d.Icon(), d.Name)
		if d.IsActive {
			label += " [active]"
		}
		if d.Name == cfg.Defaults.Device {
			label += " ★"
		}
		options = append(options, huh.NewOption(label, d.Name))
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select default device").
				Description("Used when no device is active").
				Options(options...).
				Value(&name),
		),
	)
	if err := form.RunWithContext(cmd.Context()); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	return runConfigSet(cmd, []string{"defaults.device", name})
}
