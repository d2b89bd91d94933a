package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/artwork"
	"github.com/tessro/tempo/internal/browser"
	"github.com/tessro/tempo/internal/config"
	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/logging"
	"github.com/tessro/tempo/internal/lyrics"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/tui"
	"github.com/tessro/tempo/internal/tui/components"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The player bar at the top follows the current track, with lyrics and
album colours. Below it, switch between views with 1-9 or Tab:
Library, Search, Stats, Zen, YouTube, Live, Devices, Queue and History.

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  n / p        Next / previous track
  + / -        Volume up/down
  , / .        Seek back/forward

Logs go to the file set in log.file, or to the state directory.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "Position refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Anything written to stderr would tear the alt screen.
	path := cfg.Log.File
	if path == "" {
		path = config.DashboardLogFile()
	}
	fileLog, closer, err := logging.OpenFile(path, logLevel())
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = fileLog

	s, err := newSession()
	if err != nil {
		return err
	}

	opts := engineOptions(cfg)
	opts.TickInterval = cfg.TUI.Refresh()
	if tuiRefresh > 0 {
		opts.TickInterval = time.Duration(tuiRefresh) * time.Millisecond
	}
	e := playback.New(s.player, opts)

	app := &tui.App{
		Player:  e,
		Library: s.library(),
		Catalog: s.catalog,

		ZenDelay: cfg.Zen.Delay(),
		Lyrics:   lyrics.NewSource(cfg.Lyrics.BaseURL, cfg.Lyrics.CacheDir, lyrics.WithLogger(logger)),
		Artwork: func(ctx context.Context, url string) []string {
			return artwork.Fetch(ctx, http.DefaultClient, url, 3)
		},
		Open: browser.Open,

		DefaultDevice: cfg.Defaults.Device,
		SaveDefaultDevice: func(name string) error {
			return config.SetValue(configPath(), "defaults.device", name)
		},

		Sort:   library.SortOrder(cfg.Library.Sort),
		Logger: logger,
	}

	if app.Zen, err = loadZen(); err != nil {
		logger.Warn("zen catalogue", "err", err)
	}
	if app.YouTube, err = loadYouTube(); err != nil {
		logger.Warn("youtube catalogue", "err", err)
	}
	if app.Live, err = loadLive(); err != nil {
		logger.Warn("live catalogue", "err", err)
	}

	if store := openHistory(); store != nil {
		defer store.Close()
		app.Recent = store.Recent
		go store.Follow(ctx, e.Subscribe(), func(err error) {
			logger.Warn("record history", "err", err)
		})
	} else {
		app.Recent = func(ctx context.Context, limit int) ([]history.Entry, error) {
			recent, err := s.player.GetRecentlyPlayed(ctx, min(limit, 50))
			if err != nil {
				return nil, err
			}
			return components.FromRecent(recent), nil
		}
	}

	go func() {
		_ = e.Run(ctx)
	}()

	err = tui.Run(ctx, app)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
