package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/tail"
)

var (
	tailDevice    string
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
	tailRecent    int
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch for playback state changes and print them as they happen.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Pause/Resume
  - Volume changes
  - Device changes
  - Shuffle and repeat changes

Format templates can use {{.Type}}, {{.Emoji}}, {{.Time}}, {{.Title}},
{{.Artist}}, {{.Album}}, {{.Duration}}, {{.Device}}, {{.Volume}}, {{.Shuffle}}
and {{.Repeat}}.

Example:
  tempo tail --format '{{.Time}} {{.Artist}} - {{.Title}}'`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&tailDevice, "device", "d", "", "Only show events from this device")
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "Disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "Show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "Custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "Poll interval (default from config)")
	tailCmd.Flags().IntVarP(&tailRecent, "recent", "r", 5, "Recently played tracks to show first")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	formatter, err := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)
	if err != nil {
		return fmt.Errorf("parse format: %w", err)
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	if tailRecent > 0 {
		showRecent(ctx, s, formatter)
	}

	opts := engineOptions(cfg)
	opts.PollInterval = cfg.Tail.Every()
	if tailInterval > 0 {
		opts.PollInterval = tailInterval
	}
	e := playback.New(s.player, opts)
	sub := e.Subscribe()

	if store := openHistory(); store != nil {
		defer store.Close()
		go store.Follow(ctx, e.Subscribe(), func(err error) {
			logger.Warn("record history", "err", err)
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Run(ctx)
	}()

	for {
		select {
		case <-sub.Done:
			return <-errCh
		case ev := <-sub.Events:
			if !onDevice(ev, tailDevice) {
				continue
			}
			fmt.Println(formatter.Format(ev))
		case ev := <-sub.Errors:
			logger.Debug("poll failed", "op", ev.Op, "err", ev.Err)
		}
	}
}

// showRecent prints recently played tracks, oldest first, so the live
// events continue the list.
func showRecent(ctx context.Context, s *session, f *tail.Formatter) {
	recent, err := s.player.GetRecentlyPlayed(ctx, tailRecent)
	if err != nil {
		logger.Debug("recently played", "err", err)
		return
	}
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Track != nil {
			fmt.Println(f.FormatHistory(recent[i]))
		}
	}
}

func onDevice(ev playback.Event, nameOrID string) bool {
	if nameOrID == "" {
		return true
	}
	d := ev.Current.Device
	return d != nil && (d.ID == nameOrID || strings.EqualFold(d.Name, nameOrID))
}

// openHistory opens the play history, or returns nil when it is disabled or
// cannot be opened.
func openHistory() *history.Store {
	if cfg.History.Disabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("open history", "path", cfg.History.Path, "err", err)
		return nil
	}
	return store
}
