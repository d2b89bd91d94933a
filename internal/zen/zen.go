// Package zen loops a single soundtrack over a chosen wallpaper.
package zen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tessro/tempo/internal/catalog"
	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/logging"
)

// DefaultRepeatDelay is how long after starting a song repeat is set.
const DefaultRepeatDelay = 500 * time.Millisecond

// ErrNoSongs is returned when the catalogue has nothing to play.
var ErrNoSongs = errors.New("zen catalogue has no songs")

// Song is a soundtrack choice.
type Song struct {
	TrackID string `json:"trackid" yaml:"trackid" toml:"trackid" validate:"required"`
	Name    string `json:"name" yaml:"name" toml:"name" validate:"required"`
}

// URI returns the Spotify URI of the song.
func (s Song) URI() string { return core.TrackURI(s.TrackID) }

// Wallpaper is a background choice.
type Wallpaper struct {
	Name string `json:"name" yaml:"name" toml:"name" validate:"required"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty" validate:"omitempty,url"`
}

// Catalogue lists the songs and wallpapers zen mode offers.
type Catalogue struct {
	Songs      []Song      `json:"songs" yaml:"songs" toml:"songs" validate:"required,min=1,dive"`
	Wallpapers []Wallpaper `json:"lwps" yaml:"lwps" toml:"lwps" validate:"dive"`
}

// Load reads a catalogue file.
func Load(path string) (*Catalogue, error) {
	var c Catalogue
	if err := catalog.Load(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Controller is the part of the player a session drives.
type Controller interface {
	Start(ctx context.Context, req core.PlayRequest) error
	SetRepeat(ctx context.Context, mode core.RepeatMode) error
}

// Session is an active zen mode.
type Session struct {
	cat   *Catalogue
	ctl   Controller
	delay time.Duration
	log   *log.Logger

	mu        sync.Mutex
	song      int
	started   bool
	wallpaper int
	timer     *time.Timer
	closed    bool
}

// NewSession creates a session. A zero delay uses DefaultRepeatDelay.
func NewSession(cat *Catalogue, ctl Controller, delay time.Duration, logger *log.Logger) *Session {
	if delay <= 0 {
		delay = DefaultRepeatDelay
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{cat: cat, ctl: ctl, delay: delay, log: logger}
}

// Start plays the first song.
func (s *Session) Start(ctx context.Context) error {
	return s.Select(ctx, 0)
}

// Select plays song i on its own and sets repeat=track shortly after.
func (s *Session) Select(ctx context.Context, i int) error {
	if len(s.cat.Songs) == 0 {
		return ErrNoSongs
	}
	if i < 0 || i >= len(s.cat.Songs) {
		return fmt.Errorf("song %d out of range", i)
	}
	song := s.cat.Songs[i]

	if err := s.ctl.Start(ctx, core.PlaySingle(song.URI())); err != nil {
		return fmt.Errorf("play %s: %w", song.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.song = i
	s.started = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.ctl.SetRepeat(ctx, core.RepeatTrack); err != nil {
			s.log.Warn("zen repeat failed", "song", song.Name, "err", err)
		}
	})
	return nil
}

// SelectWallpaper switches the background.
func (s *Session) SelectWallpaper(i int) error {
	if i < 0 || i >= len(s.cat.Wallpapers) {
		return fmt.Errorf("wallpaper %d out of range", i)
	}
	s.mu.Lock()
	s.wallpaper = i
	s.mu.Unlock()
	return nil
}

// Song returns the selected song. ok is false when the catalogue has none.
func (s *Session) Song() (int, Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.song >= len(s.cat.Songs) {
		return 0, Song{}, false
	}
	return s.song, s.cat.Songs[s.song], true
}

// Started reports whether a song has been played in this session.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Wallpaper returns the selected wallpaper, if the catalogue has any.
func (s *Session) Wallpaper() (int, Wallpaper, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cat.Wallpapers) == 0 {
		return 0, Wallpaper{}, false
	}
	return s.wallpaper, s.cat.Wallpapers[s.wallpaper], true
}

// Close leaves zen mode and turns repeat off.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.ctl.SetRepeat(ctx, core.RepeatOff)
}
