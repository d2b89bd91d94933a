package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/lyrics"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/stats"
)

const (
	requestTimeout = 10 * time.Second
	errorLifetime  = 5 * time.Second
	historyLimit   = 50
)

// Engine output
type (
	stateMsg     *core.PlaybackState
	positionMsg  playback.PositionChange
	eventMsg     playback.Event
	engineErrMsg playback.ErrorEvent
	engineDone   struct{}
)

// Fetch results
type (
	profileMsg   *core.User
	queueMsg     *core.Queue
	devicesMsg   []core.Device
	historyMsg   []history.Entry
	playlistsMsg []core.Playlist
	trackListMsg *library.TrackList
	statsMsg     *stats.Overview
	lyricsMsg    struct {
		uri    string
		lyrics *lyrics.Lyrics
	}
	accentMsg struct {
		uri    string
		colors []string
	}
)

type (
	errMsg        struct{ err error }
	clearErrorMsg struct{ seq int }
	switchViewMsg View
	// changedMsg asks for a redraw after an optimistic library edit.
	changedMsg struct{}
)

// waitForActivity delivers the next thing the engine publishes.
func waitForActivity(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				return engineDone{}
			}
			return eventMsg(ev)
		case st, ok := <-sub.State:
			if !ok {
				return engineDone{}
			}
			return stateMsg(st)
		case p, ok := <-sub.Position:
			if !ok {
				return engineDone{}
			}
			return positionMsg(p)
		case e, ok := <-sub.Errors:
			if !ok {
				return engineDone{}
			}
			return engineErrMsg(e)
		case <-sub.Done:
			return engineDone{}
		}
	}
}

// run executes fn with a timeout and reports failure as an errMsg. A nil
// message is returned on success.
func run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// edit is run for optimistic library changes: success asks for a redraw.
func edit(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return errMsg{err}
		}
		return changedMsg{}
	}
}

// fetch executes fn with a timeout and wraps its result with wrap.
func fetch[T any](fn func(ctx context.Context) (T, error), wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		v, err := fn(ctx)
		if err != nil {
			return errMsg{err}
		}
		return wrap(v)
	}
}

func switchTo(v View) tea.Cmd {
	return func() tea.Msg { return switchViewMsg(v) }
}

func (m Model) fetchProfile() tea.Cmd {
	return fetch(m.app.Catalog.Profile, func(u *core.User) tea.Msg { return profileMsg(u) })
}

func (m Model) fetchQueue() tea.Cmd {
	return fetch(m.app.Player.Queue, func(q *core.Queue) tea.Msg { return queueMsg(q) })
}

func (m Model) fetchDevices() tea.Cmd {
	return fetch(m.app.Player.Devices, func(d []core.Device) tea.Msg { return devicesMsg(d) })
}

func (m Model) fetchHistory() tea.Cmd {
	if m.app.Recent == nil {
		return nil
	}
	return fetch(func(ctx context.Context) ([]history.Entry, error) {
		return m.app.Recent(ctx, historyLimit)
	}, func(h []history.Entry) tea.Msg { return historyMsg(h) })
}

func (m Model) fetchPlaylists() tea.Cmd {
	return fetch(m.app.Library.Playlists, func(p []core.Playlist) tea.Msg { return playlistsMsg(p) })
}

func (m Model) openPlaylist(p core.Playlist) tea.Cmd {
	lib := m.app.Library
	return fetch(func(ctx context.Context) (*library.TrackList, error) {
		list, err := lib.Open(ctx, p)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, list.Len())
		for _, t := range list.Tracks() {
			ids = append(ids, t.ID)
		}
		if err := lib.Favorites.Refresh(ctx, ids); err != nil {
			return nil, err
		}
		return list, nil
	}, func(l *library.TrackList) tea.Msg { return trackListMsg(l) })
}

func (m Model) fetchStats(r core.TimeRange) tea.Cmd {
	return fetch(func(ctx context.Context) (*stats.Overview, error) {
		return stats.Fetch(ctx, m.app.Catalog, r)
	}, func(o *stats.Overview) tea.Msg { return statsMsg(o) })
}

// fetchLyrics loads synced lyrics for t when the YouTube catalogue has a
// lyrics file for it. Missing lyrics are not an error.
func (m Model) fetchLyrics(t *core.Track) tea.Cmd {
	if m.app.Lyrics == nil || m.app.YouTube == nil || t == nil {
		return nil
	}
	v, ok := m.app.YouTube.Lookup(t.ID)
	if !ok || v.Lyrics == "" {
		return nil
	}
	src, uri, file := m.app.Lyrics, t.URI, v.Lyrics
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		l, err := src.Fetch(ctx, file)
		if err != nil {
			if lyrics.IsMissing(err) {
				return lyricsMsg{uri: uri}
			}
			return errMsg{err}
		}
		return lyricsMsg{uri: uri, lyrics: l}
	}
}

func (m Model) fetchAccent(t *core.Track) tea.Cmd {
	if m.app.Artwork == nil || t == nil {
		return nil
	}
	fn, uri, art := m.app.Artwork, t.URI, t.AlbumArtURL
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return accentMsg{uri: uri, colors: fn(ctx, art)}
	}
}
