package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/browser"
	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/tui/styles"
	"github.com/tessro/tempo/internal/zen"
)

var zenCmd = &cobra.Command{
	Use:   "zen",
	Short: "Loop a single song",
	Long: `Zen mode plays one song from your zen catalogue on repeat, with a
wallpaper to go with it. Without a subcommand the catalogue is listed.`,
	RunE: runZenList,
}

var zenPlayCmd = &cobra.Command{
	Use:   "play [song]",
	Short: "Start looping a song",
	Long:  `Play a zen song, by number or name, and put it on repeat. Defaults to the first song.`,
	RunE:  runZenPlay,
}

var zenStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Leave zen mode",
	Long:  `Turn track repeat back off.`,
	RunE:  runZenStop,
}

var zenWallpaperCmd = &cobra.Command{
	Use:   "wallpaper <wallpaper>",
	Short: "Open a wallpaper",
	Long:  `Open a wallpaper, by number or name, in the browser.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runZenWallpaper,
}

func init() {
	zenCmd.AddCommand(zenPlayCmd)
	zenCmd.AddCommand(zenStopCmd)
	zenCmd.AddCommand(zenWallpaperCmd)
	rootCmd.AddCommand(zenCmd)
}

func zenCatalogue() (*zen.Catalogue, error) {
	cat, err := loadZen()
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, tempoerrors.WithSuggestion(tempoerrors.ErrCatalogMissing,
			"Point catalog.zen in your config at a zen catalogue file")
	}
	return cat, nil
}

// pick finds an item by 1-based number or by name.
func pick(names []string, arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(names) {
			return 0, fmt.Errorf("pick a number from 1 to %d", len(names))
		}
		return n - 1, nil
	}
	lower := strings.ToLower(arg)
	for i, name := range names {
		if strings.EqualFold(name, arg) {
			return i, nil
		}
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("nothing named %q", arg)
}

func songNames(cat *zen.Catalogue) []string {
	names := make([]string, len(cat.Songs))
	for i, s := range cat.Songs {
		names[i] = s.Name
	}
	return names
}

func wallpaperNames(cat *zen.Catalogue) []string {
	names := make([]string, len(cat.Wallpapers))
	for i, w := range cat.Wallpapers {
		names[i] = w.Name
	}
	return names
}

func runZenList(cmd *cobra.Command, args []string) error {
	cat, err := zenCatalogue()
	if err != nil {
		return err
	}
	if JSONOutput() {
		return printJSON(cat)
	}

	fmt.Println(styles.Label.Render("Songs"))
	for i, name := range songNames(cat) {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
	if len(cat.Wallpapers) > 0 {
		fmt.Println()
		fmt.Println(styles.Label.Render("Wallpapers"))
		for i, name := range wallpaperNames(cat) {
			fmt.Printf("  %2d. %s\n", i+1, name)
		}
	}
	return nil
}

// repeatSignal reports when the session's delayed repeat call has finished.
type repeatSignal struct {
	zen.Controller
	done chan error
}

func (r *repeatSignal) SetRepeat(ctx context.Context, mode core.RepeatMode) error {
	err := r.Controller.SetRepeat(ctx, mode)
	select {
	case r.done <- err:
	default:
	}
	return err
}

func runZenPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := zenCatalogue()
	if err != nil {
		return err
	}
	i := 0
	if len(args) > 0 {
		if i, err = pick(songNames(cat), strings.Join(args, " ")); err != nil {
			return err
		}
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	if _, err := s.target(ctx, ""); err != nil {
		return err
	}

	ctl := &repeatSignal{Controller: s.engine(ctx), done: make(chan error, 1)}
	session := zen.NewSession(cat, ctl, cfg.Zen.Delay(), logger)
	if err := session.Select(ctx, i); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-ctl.done:
		if err != nil {
			return fmt.Errorf("set repeat: %w", err)
		}
	}

	_, song, _ := session.Song()
	return report("zen", "∞ Looping "+song.Name, map[string]any{"song": song.Name, "uri": song.URI()})
}

func runZenStop(cmd *cobra.Command, args []string) error {
	cat, err := zenCatalogue()
	if err != nil {
		return err
	}
	s, err := newSession()
	if err != nil {
		return err
	}

	session := zen.NewSession(cat, s.engine(cmd.Context()), cfg.Zen.Delay(), logger)
	if err := session.Close(cmd.Context()); err != nil {
		return fmt.Errorf("leave zen mode: %w", err)
	}
	return report("stopped", "Left zen mode", nil)
}

func runZenWallpaper(cmd *cobra.Command, args []string) error {
	cat, err := zenCatalogue()
	if err != nil {
		return err
	}
	i, err := pick(wallpaperNames(cat), strings.Join(args, " "))
	if err != nil {
		return err
	}
	w := cat.Wallpapers[i]
	if w.URL == "" {
		return fmt.Errorf("%s has no link", w.Name)
	}
	if err := browser.Open(w.URL); err != nil {
		return fmt.Errorf("open %s: %w", w.URL, err)
	}
	return report("opened", "Opened "+w.Name, map[string]any{"wallpaper": w.Name, "url": w.URL})
}
