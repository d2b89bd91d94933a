package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/playback"
)

const volumeStep = 10

var controlDevice string

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the current playback.`,
	RunE:  runPause,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume playback",
	Long:  `Resume paused playback.`,
	RunE:  runResume,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Skip to the next track in the queue.`,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	Long:  `Go back to the previous track.`,
	RunE:  runPrev,
}

var restartCmd = &cobra.Command{
	Use:     "restart",
	Aliases: []string{"replay"},
	Short:   "Restart current track",
	Long:    `Restart the current track from the beginning.`,
	RunE:    runRestart,
}

var seekCmd = &cobra.Command{
	Use:   "seek <position>",
	Short: "Seek within the current track",
	Long: `Seek to an absolute position or move relative to the current one.

Examples:
  tempo seek 1:30     # Jump to 1:30
  tempo seek 90       # Jump to 90 seconds
  tempo seek +15      # Forward 15 seconds
  tempo seek -- -10   # Back 10 seconds`,
	Args: cobra.ExactArgs(1),
	RunE: runSeek,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down.

Examples:
  tempo volume 50      # Set volume to 50%
  tempo volume --up    # Increase volume by 10%
  tempo volume --down  # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

var shuffleCmd = &cobra.Command{
	Use:       "shuffle [on|off]",
	Short:     "Set or toggle shuffle",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runShuffle,
}

var repeatCmd = &cobra.Command{
	Use:   "repeat [off|track|context]",
	Short: "Set or cycle the repeat mode",
	Long: `Set the repeat mode. Without an argument the mode cycles
off → context → track → off.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"off", "track", "context"},
	RunE:      runRepeat,
}

func init() {
	for _, c := range []*cobra.Command{pauseCmd, resumeCmd, nextCmd, prevCmd, restartCmd, seekCmd, volumeCmd, shuffleCmd, repeatCmd} {
		c.Flags().StringVarP(&controlDevice, "device", "d", "", "Target device")
		rootCmd.AddCommand(c)
	}
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")
}

// controlEngine returns an engine synced with the current playback, aimed at
// the --device flag or the configured default.
func controlEngine(ctx context.Context) (*playback.Engine, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	if _, err := s.target(ctx, controlDevice); err != nil {
		return nil, err
	}
	return s.engine(ctx), nil
}

func runPause(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}
	if err := e.Pause(ctx); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return report("paused", "⏸ Paused", nil)
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}
	if err := e.Play(ctx); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	return report("playing", "▶ Resumed", nil)
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}
	if err := e.Next(ctx); err != nil {
		return fmt.Errorf("skip: %w", err)
	}
	return report("skipped", "⏭ Skipped to next track", nil)
}

func runPrev(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}
	if err := e.Prev(ctx); err != nil {
		return fmt.Errorf("previous: %w", err)
	}
	return report("previous", "⏮ Previous track", nil)
}

func runRestart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}
	if err := e.Seek(ctx, 0); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return report("restarted", "↺ Restarted track", nil)
}

// parsePosition reads "90", "1:30", "+15" or "-10". Relative reports whether
// the value is an offset from the current position.
func parsePosition(s string) (d time.Duration, relative bool, err error) {
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(s, "+"):
		relative, s = true, s[1:]
	case strings.HasPrefix(s, "-"):
		relative, sign, s = true, -1, s[1:]
	}

	var secs int
	if m, sec, ok := strings.Cut(s, ":"); ok {
		mi, err1 := strconv.Atoi(m)
		si, err2 := strconv.Atoi(sec)
		if err1 != nil || err2 != nil || si < 0 || si >= 60 || mi < 0 {
			return 0, false, fmt.Errorf("invalid position %q", s)
		}
		secs = mi*60 + si
	} else {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, false, fmt.Errorf("invalid position %q", s)
		}
		secs = n
	}
	return sign * time.Duration(secs) * time.Second, relative, nil
}

func runSeek(cmd *cobra.Command, args []string) error {
	pos, relative, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}
	if relative {
		err = e.SeekBy(ctx, pos)
	} else {
		err = e.Seek(ctx, pos)
	}
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	now := e.State()
	var progress time.Duration
	if now != nil {
		progress = now.Progress
	}
	return report("seeked", "⏩ "+core.FormatDuration(progress),
		map[string]any{"position_ms": progress.Milliseconds()})
}

func runVolume(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !volumeUp && !volumeDown {
		return fmt.Errorf("specify a level (0-100) or use --up/--down")
	}

	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}

	switch {
	case len(args) == 1:
		level, perr := strconv.Atoi(args[0])
		if perr != nil || level < 0 || level > 100 {
			return fmt.Errorf("volume must be between 0 and 100, got %q", args[0])
		}
		err = e.SetVolume(ctx, level)
	case volumeUp:
		err = e.AdjustVolume(ctx, volumeStep)
	default:
		err = e.AdjustVolume(ctx, -volumeStep)
	}
	if err != nil {
		return fmt.Errorf("set volume: %w", err)
	}

	vol := 0
	if s := e.State(); s != nil {
		vol = s.Volume
	}
	return report("volume", fmt.Sprintf("🔊 Volume: %d%%", vol), map[string]any{"volume": vol})
}

func runShuffle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		var on bool
		switch strings.ToLower(args[0]) {
		case "on", "true":
			on = true
		case "off", "false":
		default:
			return fmt.Errorf("shuffle must be on or off, got %q", args[0])
		}
		err = e.SetShuffle(ctx, on)
	} else {
		err = e.ToggleShuffle(ctx)
	}
	if err != nil {
		return fmt.Errorf("set shuffle: %w", err)
	}

	on := e.State() != nil && e.State().Shuffle
	label := "off"
	if on {
		label = "on"
	}
	return report("shuffle", "🔀 Shuffle "+label, map[string]any{"shuffle": on})
}

func runRepeat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := controlEngine(ctx)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		mode, ok := core.ParseRepeatMode(strings.ToLower(args[0]))
		if !ok {
			return fmt.Errorf("repeat must be off, track or context, got %q", args[0])
		}
		err = e.SetRepeat(ctx, mode)
	} else {
		err = e.CycleRepeat(ctx)
	}
	if err != nil {
		return fmt.Errorf("set repeat: %w", err)
	}

	mode := core.RepeatOff
	if s := e.State(); s != nil {
		mode = s.Repeat
	}
	return report("repeat", "🔁 Repeat "+string(mode), map[string]any{"repeat": string(mode)})
}
