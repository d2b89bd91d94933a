// Package tui is the full-screen dashboard.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/tessro/tempo/internal/catalog"
	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/lyrics"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/stats"
	"github.com/tessro/tempo/internal/wizard"
	"github.com/tessro/tempo/internal/zen"
)

// Player is the playback surface the dashboard drives. *playback.Engine
// implements it.
type Player interface {
	zen.Controller

	State() *core.PlaybackState
	Subscribe() *playback.Subscription

	Toggle(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	SeekBy(ctx context.Context, delta time.Duration) error
	AdjustVolume(ctx context.Context, delta int) error
	ToggleShuffle(ctx context.Context) error
	CycleRepeat(ctx context.Context) error

	Devices(ctx context.Context) ([]core.Device, error)
	Transfer(ctx context.Context, deviceID string, play bool) error
	Queue(ctx context.Context) (*core.Queue, error)
	AddToQueue(ctx context.Context, uri string) error
	PlayList(ctx context.Context, contextURI string, tracks []core.Track, trackURI string, offset int) error
	PlayFromQueue(ctx context.Context, trackURI string) error
}

// Catalog is the read-only side of the Web API the dashboard browses.
type Catalog interface {
	wizard.Searcher
	stats.Source
	Profile(ctx context.Context) (*core.User, error)
}

// LyricsSource fetches synced lyrics by catalogue file name.
type LyricsSource interface {
	Fetch(ctx context.Context, file string) (*lyrics.Lyrics, error)
}

// App holds everything the dashboard needs. Optional parts may be nil and
// their views say so.
type App struct {
	Player  Player
	Library *library.Library
	Catalog Catalog

	// Recent lists play history, newest first.
	Recent func(ctx context.Context, limit int) ([]history.Entry, error)

	Zen      *zen.Catalogue
	ZenDelay time.Duration
	YouTube  *catalog.YouTube
	Live     []catalog.Video
	Lyrics   LyricsSource

	// Artwork returns the dominant colours of an album cover.
	Artwork func(ctx context.Context, url string) []string
	// Open launches a URL in the browser.
	Open func(url string) error

	DefaultDevice string
	// SaveDefaultDevice persists a new default device name.
	SaveDefaultDevice func(name string) error

	Sort        library.SortOrder
	SearchLimit int
	Logger      *log.Logger
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, app *App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
