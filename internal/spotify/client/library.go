package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// MaxIDsPerRequest is Spotify's limit on ids for library endpoints.
const MaxIDsPerRequest = 50

// TimeRange selects the window for top items.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

func pageParams(limit, offset int) map[string]string {
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if offset > 0 {
		params["offset"] = strconv.Itoa(offset)
	}
	return params
}

// GetUserPlaylists returns a page of the current user's playlists.
func (c *Client) GetUserPlaylists(ctx context.Context, limit, offset int) (*Page[Playlist], error) {
	var page Page[Playlist]
	if err := c.Get(ctx, BuildURL("/me/playlists", pageParams(limit, offset)), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPlaylist returns a playlist's metadata.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	var p Playlist
	path := BuildURL("/playlists/"+url.PathEscape(id), map[string]string{
		"fields": "id,name,uri,description,public,collaborative,snapshot_id,images,owner,tracks.total",
	})
	if err := c.Get(ctx, path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlaylistTracks returns a page of a playlist's entries.
func (c *Client) GetPlaylistTracks(ctx context.Context, id string, limit, offset int) (*Page[PlaylistTrack], error) {
	var page Page[PlaylistTrack]
	path := BuildURL("/playlists/"+url.PathEscape(id)+"/tracks", pageParams(limit, offset))
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AddTracksToPlaylist appends uris to a playlist.
func (c *Client) AddTracksToPlaylist(ctx context.Context, id string, uris []string) (string, error) {
	var resp SnapshotResponse
	body := map[string]any{"uris": uris}
	if err := c.Post(ctx, "/playlists/"+url.PathEscape(id)+"/tracks", body, &resp); err != nil {
		return "", err
	}
	return resp.SnapshotID, nil
}

type trackRef struct {
	URI string `json:"uri"`
}

// RemoveTracksFromPlaylist removes every occurrence of uris from a playlist.
func (c *Client) RemoveTracksFromPlaylist(ctx context.Context, id string, uris []string) error {
	refs := make([]trackRef, 0, len(uris))
	for _, u := range uris {
		refs = append(refs, trackRef{URI: u})
	}
	return c.Delete(ctx, "/playlists/"+url.PathEscape(id)+"/tracks", map[string]any{"tracks": refs})
}

// GetSavedTracks returns a page of the user's saved tracks.
func (c *Client) GetSavedTracks(ctx context.Context, limit, offset int) (*Page[SavedTrack], error) {
	var page Page[SavedTrack]
	if err := c.Get(ctx, BuildURL("/me/tracks", pageParams(limit, offset)), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// chunk splits ids into slices of at most MaxIDsPerRequest.
func chunk(ids []string) [][]string {
	var out [][]string
	for len(ids) > 0 {
		n := min(len(ids), MaxIDsPerRequest)
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}

// CheckSavedTracks reports, in input order, whether each id is in the
// user's library. Ids are checked in batches of 50.
func (c *Client) CheckSavedTracks(ctx context.Context, ids []string) ([]bool, error) {
	out := make([]bool, 0, len(ids))
	for _, batch := range chunk(ids) {
		var resp []bool
		path := BuildURL("/me/tracks/contains", map[string]string{"ids": strings.Join(batch, ",")})
		if err := c.Get(ctx, path, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp...)
	}
	return out, nil
}

// SaveTracks adds ids to the user's library.
func (c *Client) SaveTracks(ctx context.Context, ids []string) error {
	for _, batch := range chunk(ids) {
		path := BuildURL("/me/tracks", map[string]string{"ids": strings.Join(batch, ",")})
		if err := c.Put(ctx, path, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSavedTracks removes ids from the user's library.
func (c *Client) RemoveSavedTracks(ctx context.Context, ids []string) error {
	for _, batch := range chunk(ids) {
		path := BuildURL("/me/tracks", map[string]string{"ids": strings.Join(batch, ",")})
		if err := c.Delete(ctx, path, nil); err != nil {
			return err
		}
	}
	return nil
}

func topParams(tr TimeRange, limit int) map[string]string {
	params := map[string]string{}
	if tr != "" {
		params["time_range"] = string(tr)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return params
}

// GetTopArtists returns the user's top artists over a time range.
func (c *Client) GetTopArtists(ctx context.Context, tr TimeRange, limit int) (*Page[Artist], error) {
	var page Page[Artist]
	if err := c.Get(ctx, BuildURL("/me/top/artists", topParams(tr, limit)), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTopTracks returns the user's top tracks over a time range.
func (c *Client) GetTopTracks(ctx context.Context, tr TimeRange, limit int) (*Page[Track], error) {
	var page Page[Track]
	if err := c.Get(ctx, BuildURL("/me/top/tracks", topParams(tr, limit)), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
