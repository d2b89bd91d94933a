package player

import (
	"context"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/spotify/client"
)

// Library exposes the user's playlists, saved tracks, search and top items
// as core types.
type Library struct {
	client   *client.Client
	pageSize int
	market   string
}

// NewLibrary creates a library adapter fetching pageSize items per request.
func NewLibrary(c *client.Client, pageSize int, market string) *Library {
	if pageSize <= 0 || pageSize > client.MaxIDsPerRequest {
		pageSize = client.MaxIDsPerRequest
	}
	return &Library{client: c, pageSize: pageSize, market: market}
}

// collect walks pages from fetch until there is no next page.
func collect[T, U any](ctx context.Context, size int, fetch func(ctx context.Context, limit, offset int) (*client.Page[T], error), conv func(*T) (U, bool)) ([]U, error) {
	var out []U
	for offset := 0; ; {
		page, err := fetch(ctx, size, offset)
		if err != nil {
			return nil, err
		}
		for i := range page.Items {
			if u, ok := conv(&page.Items[i]); ok {
				out = append(out, u)
			}
		}
		offset += len(page.Items)
		if !page.HasNext() || len(page.Items) == 0 {
			return out, nil
		}
	}
}

// Profile returns the current user.
func (l *Library) Profile(ctx context.Context) (*core.User, error) {
	u, err := l.client.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return ConvertUser(u), nil
}

// Playlists returns every playlist the user follows or owns.
func (l *Library) Playlists(ctx context.Context) ([]core.Playlist, error) {
	return collect(ctx, l.pageSize, l.client.GetUserPlaylists, func(p *client.Playlist) (core.Playlist, bool) {
		return ConvertPlaylist(p), true
	})
}

// SavedCount returns the number of tracks in the user's library.
func (l *Library) SavedCount(ctx context.Context) (int, error) {
	page, err := l.client.GetSavedTracks(ctx, 1, 0)
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

// SavedTracks returns the whole saved-tracks library, newest first.
func (l *Library) SavedTracks(ctx context.Context) ([]core.Track, error) {
	return collect(ctx, l.pageSize, l.client.GetSavedTracks, func(s *client.SavedTrack) (core.Track, bool) {
		t := ConvertTrack(&s.Track, core.SourceLiked)
		t.AddedAt = s.AddedAt
		return *t, true
	})
}

// PlaylistTracks returns a playlist's playable tracks in order.
func (l *Library) PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error) {
	fetch := func(ctx context.Context, limit, offset int) (*client.Page[client.PlaylistTrack], error) {
		return l.client.GetPlaylistTracks(ctx, playlistID, limit, offset)
	}
	return collect(ctx, l.pageSize, fetch, func(pt *client.PlaylistTrack) (core.Track, bool) {
		if pt.Track == nil || pt.Track.ID == "" {
			return core.Track{}, false
		}
		t := ConvertTrack(pt.Track, core.SourcePlaylist)
		t.AddedAt = pt.AddedAt
		return *t, true
	})
}

// CheckSaved reports whether each id is saved, in input order.
func (l *Library) CheckSaved(ctx context.Context, ids []string) ([]bool, error) {
	return l.client.CheckSavedTracks(ctx, ids)
}

// Save adds ids to the library.
func (l *Library) Save(ctx context.Context, ids ...string) error {
	return l.client.SaveTracks(ctx, ids)
}

// Unsave removes ids from the library.
func (l *Library) Unsave(ctx context.Context, ids ...string) error {
	return l.client.RemoveSavedTracks(ctx, ids)
}

// AddToPlaylist appends a track to a playlist.
func (l *Library) AddToPlaylist(ctx context.Context, playlistID, uri string) error {
	_, err := l.client.AddTracksToPlaylist(ctx, playlistID, []string{uri})
	return err
}

// RemoveFromPlaylist removes a track from a playlist.
func (l *Library) RemoveFromPlaylist(ctx context.Context, playlistID, uri string) error {
	return l.client.RemoveTracksFromPlaylist(ctx, playlistID, []string{uri})
}

// SearchTracks searches the catalogue for tracks.
func (l *Library) SearchTracks(ctx context.Context, query string, limit int) ([]core.Track, error) {
	resp, err := l.client.Search(ctx, client.SearchOptions{
		Query:  query,
		Types:  []client.SearchType{client.SearchTypeTrack},
		Limit:  limit,
		Market: l.market,
	})
	if err != nil {
		return nil, err
	}
	var out []core.Track
	if resp.Tracks != nil {
		for i := range resp.Tracks.Items {
			out = append(out, *ConvertTrack(&resp.Tracks.Items[i], core.SourceSearch))
		}
	}
	return out, nil
}

// SearchArtists searches the catalogue for artists.
func (l *Library) SearchArtists(ctx context.Context, query string, limit int) ([]core.Artist, error) {
	resp, err := l.client.Search(ctx, client.SearchOptions{
		Query: query, Types: []client.SearchType{client.SearchTypeArtist}, Limit: limit, Market: l.market,
	})
	if err != nil {
		return nil, err
	}
	var out []core.Artist
	if resp.Artists != nil {
		for i := range resp.Artists.Items {
			out = append(out, ConvertArtist(&resp.Artists.Items[i]))
		}
	}
	return out, nil
}

// SearchAlbums searches the catalogue for albums.
func (l *Library) SearchAlbums(ctx context.Context, query string, limit int) ([]core.Album, error) {
	resp, err := l.client.Search(ctx, client.SearchOptions{
		Query: query, Types: []client.SearchType{client.SearchTypeAlbum}, Limit: limit, Market: l.market,
	})
	if err != nil {
		return nil, err
	}
	var out []core.Album
	if resp.Albums != nil {
		for i := range resp.Albums.Items {
			out = append(out, ConvertAlbum(&resp.Albums.Items[i]))
		}
	}
	return out, nil
}

// TopArtists returns the user's top artists.
func (l *Library) TopArtists(ctx context.Context, r core.TimeRange, limit int) ([]core.Artist, error) {
	page, err := l.client.GetTopArtists(ctx, client.TimeRange(r), limit)
	if err != nil {
		return nil, err
	}
	out := make([]core.Artist, 0, len(page.Items))
	for i := range page.Items {
		out = append(out, ConvertArtist(&page.Items[i]))
	}
	return out, nil
}

// TopTracks returns the user's top tracks.
func (l *Library) TopTracks(ctx context.Context, r core.TimeRange, limit int) ([]core.Track, error) {
	page, err := l.client.GetTopTracks(ctx, client.TimeRange(r), limit)
	if err != nil {
		return nil, err
	}
	out := make([]core.Track, 0, len(page.Items))
	for i := range page.Items {
		out = append(out, *ConvertTrack(&page.Items[i], core.SourceTop))
	}
	return out, nil
}
