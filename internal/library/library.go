// Package library loads playlists and their tracks and applies local edits
// optimistically.
package library

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/logging"
)

// Source is the remote side of the library.
type Source interface {
	Playlists(ctx context.Context) ([]core.Playlist, error)
	SavedCount(ctx context.Context) (int, error)
	SavedTracks(ctx context.Context) ([]core.Track, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error)
	CheckSaved(ctx context.Context, ids []string) ([]bool, error)
	Save(ctx context.Context, ids ...string) error
	Unsave(ctx context.Context, ids ...string) error
	AddToPlaylist(ctx context.Context, playlistID, uri string) error
	RemoveFromPlaylist(ctx context.Context, playlistID, uri string) error
}

// Library wraps a Source with the liked-track set.
type Library struct {
	src       Source
	log       *log.Logger
	Favorites *Favorites
}

// New creates a library over src. A nil logger discards output.
func New(src Source, logger *log.Logger) *Library {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Library{
		src:       src,
		log:       logger,
		Favorites: NewFavorites(src),
	}
}

// Playlists returns Liked Songs followed by the user's playlists.
func (l *Library) Playlists(ctx context.Context) ([]core.Playlist, error) {
	count, err := l.src.SavedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count saved tracks: %w", err)
	}
	lists, err := l.src.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return append([]core.Playlist{core.LikedSongs(count)}, lists...), nil
}

// Tracks loads the tracks of p.
func (l *Library) Tracks(ctx context.Context, p core.Playlist) ([]core.Track, error) {
	if p.IsLikedSongs() {
		tracks, err := l.src.SavedTracks(ctx)
		if err != nil {
			return nil, fmt.Errorf("load saved tracks: %w", err)
		}
		return tracks, nil
	}
	tracks, err := l.src.PlaylistTracks(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load playlist %s: %w", p.Name, err)
	}
	return tracks, nil
}

// Open loads p into a TrackList.
func (l *Library) Open(ctx context.Context, p core.Playlist) (*TrackList, error) {
	tracks, err := l.Tracks(ctx, p)
	if err != nil {
		return nil, err
	}
	return &TrackList{Playlist: p, tracks: tracks}, nil
}

// AddTrack appends uri to a playlist.
func (l *Library) AddTrack(ctx context.Context, playlistID, uri string) error {
	if playlistID == core.LikedSongsID {
		return l.Favorites.set(ctx, trackID(uri), true)
	}
	if err := l.src.AddToPlaylist(ctx, playlistID, uri); err != nil {
		return fmt.Errorf("add to playlist: %w", err)
	}
	l.log.Debug("added track", "playlist", playlistID, "uri", uri)
	return nil
}

// RemoveTrack drops uri from list right away and then from Spotify. For Liked
// Songs the track is unsaved and leaves the liked set. Both are restored when
// the request fails.
func (l *Library) RemoveTrack(ctx context.Context, list *TrackList, uri string) error {
	list.mu.Lock()
	before := slices.Clone(list.tracks)
	i := core.IndexOf(list.tracks, uri)
	id := trackID(uri)
	if i >= 0 && list.tracks[i].ID != "" {
		id = list.tracks[i].ID
	}
	list.tracks = slices.DeleteFunc(list.tracks, func(t core.Track) bool { return t.URI == uri })
	list.mu.Unlock()

	var err error
	if list.Playlist.IsLikedSongs() {
		err = l.Favorites.set(ctx, id, false)
	} else {
		err = l.src.RemoveFromPlaylist(ctx, list.Playlist.ID, uri)
	}
	if err != nil {
		list.mu.Lock()
		list.tracks = before
		list.mu.Unlock()
		l.log.Warn("remove track failed", "playlist", list.Playlist.ID, "uri", uri, "err", err)
		return fmt.Errorf("remove track: %w", err)
	}
	return nil
}

// TrackList is a loaded playlist.
type TrackList struct {
	Playlist core.Playlist

	mu     sync.Mutex
	tracks []core.Track
}

// NewTrackList wraps already loaded tracks.
func NewTrackList(p core.Playlist, tracks []core.Track) *TrackList {
	return &TrackList{Playlist: p, tracks: tracks}
}

// Tracks returns a copy of the current tracks.
func (t *TrackList) Tracks() []core.Track {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.tracks)
}

// Len returns the number of tracks.
func (t *TrackList) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tracks)
}

// ContextURI is the context to play the list in, empty for Liked Songs.
func (t *TrackList) ContextURI() string {
	if t.Playlist.IsLikedSongs() {
		return ""
	}
	return t.Playlist.URI
}

// trackID extracts the id from a track URI.
func trackID(uri string) string {
	if i := strings.LastIndexByte(uri, ':'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
