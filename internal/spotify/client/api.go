package client

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
)

const (
	// DefaultSearchLimit is used when SearchOptions.Limit is zero.
	DefaultSearchLimit = 20
	// MaxSearchLimit is the most results Spotify returns per type.
	MaxSearchLimit = 50
	// MaxSearchOffset is the deepest page Spotify serves.
	MaxSearchOffset = 1000
	// MaxRecentlyPlayed is the cap on the recently played endpoint.
	MaxRecentlyPlayed = 50
)

// GetCurrentUser returns the current user's profile. The profile is fetched
// once per login.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	c.mu.RLock()
	cached := c.user
	c.mu.RUnlock()
	if cached != nil {
		u := *cached
		return &u, nil
	}

	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	u := user
	return &u, nil
}

// GetDevices returns the user's available playback devices.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, "/me/player/devices", &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// GetPlaybackState returns the current playback state. It returns nil, nil
// when nothing is playing anywhere.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	path := BuildURL("/me/player", map[string]string{"additional_types": "track"})
	if err := c.Get(ctx, path, &state); err != nil {
		return nil, err
	}
	if state.Device.ID == "" && state.Item == nil {
		return nil, nil
	}
	return &state, nil
}

// SearchType represents a type of Spotify content to search.
type SearchType string

const (
	SearchTypeTrack    SearchType = "track"
	SearchTypeArtist   SearchType = "artist"
	SearchTypeAlbum    SearchType = "album"
	SearchTypePlaylist SearchType = "playlist"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	Query  string
	Types  []SearchType
	Limit  int
	Offset int
	Market string
}

// params turns the options into query parameters. Types default to tracks
// and repeat types are dropped; the limit and offset are clamped to what
// the API accepts.
func (o SearchOptions) params() map[string]string {
	var types []string
	for _, t := range o.Types {
		if !slices.Contains(types, string(t)) {
			types = append(types, string(t))
		}
	}
	if len(types) == 0 {
		types = []string{string(SearchTypeTrack)}
	}

	limit := o.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	p := map[string]string{
		"q":     strings.TrimSpace(o.Query),
		"type":  strings.Join(types, ","),
		"limit": strconv.Itoa(min(limit, MaxSearchLimit)),
	}
	if o.Offset > 0 {
		p["offset"] = strconv.Itoa(min(o.Offset, MaxSearchOffset))
	}
	if o.Market != "" {
		p["market"] = o.Market
	}
	return p
}

// Search runs a catalogue search.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, errors.New("search query cannot be empty")
	}

	var resp SearchResponse
	if err := c.Get(ctx, BuildURL("/search", opts.params()), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecentlyPlayed returns the user's recently played tracks, newest first.
// The limit is capped at MaxRecentlyPlayed.
func (c *Client) GetRecentlyPlayed(ctx context.Context, limit int) (*RecentlyPlayedResponse, error) {
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(min(limit, MaxRecentlyPlayed))
	}
	var resp RecentlyPlayedResponse
	if err := c.Get(ctx, BuildURL("/me/player/recently-played", params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
