package client

import (
	"context"
	"strconv"
)

// PlayOptions is the body of a play request.
type PlayOptions struct {
	ContextURI string      `json:"context_uri,omitempty"`
	URIs       []string    `json:"uris,omitempty"`
	Offset     *PlayOffset `json:"offset,omitempty"`
	PositionMS int         `json:"position_ms,omitempty"`
}

// PlayOffset specifies where to start playback in a list or context.
type PlayOffset struct {
	Position *int   `json:"position,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// AtPosition returns an offset at track index i.
func AtPosition(i int) *PlayOffset {
	return &PlayOffset{Position: &i}
}

// AtURI returns an offset at the given track URI.
func AtURI(uri string) *PlayOffset {
	return &PlayOffset{URI: uri}
}

// Play starts or resumes playback. A nil opts resumes the current playback.
// An empty deviceID targets the active device.
func (c *Client) Play(ctx context.Context, deviceID string, opts *PlayOptions) error {
	// Spotify wants a JSON body even for a plain resume
	body := opts
	if body == nil {
		body = &PlayOptions{}
	}
	return c.Put(ctx, withDevice("/me/player/play", deviceID, nil), body, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	return c.Put(ctx, withDevice("/me/player/pause", deviceID, nil), nil, nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context, deviceID string) error {
	return c.Post(ctx, withDevice("/me/player/next", deviceID, nil), nil, nil)
}

// Previous skips to the previous track.
func (c *Client) Previous(ctx context.Context, deviceID string) error {
	return c.Post(ctx, withDevice("/me/player/previous", deviceID, nil), nil, nil)
}

// Seek seeks to a position in the current track.
func (c *Client) Seek(ctx context.Context, positionMs int, deviceID string) error {
	return c.Put(ctx, withDevice("/me/player/seek", deviceID, map[string]string{
		"position_ms": strconv.Itoa(positionMs),
	}), nil, nil)
}

// SetVolume sets the playback volume (0-100).
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) error {
	return c.Put(ctx, withDevice("/me/player/volume", deviceID, map[string]string{
		"volume_percent": strconv.Itoa(percent),
	}), nil, nil)
}

// SetRepeat sets the repeat mode (off, track, context).
func (c *Client) SetRepeat(ctx context.Context, state, deviceID string) error {
	return c.Put(ctx, withDevice("/me/player/repeat", deviceID, map[string]string{
		"state": state,
	}), nil, nil)
}

// SetShuffle sets the shuffle mode.
func (c *Client) SetShuffle(ctx context.Context, state bool, deviceID string) error {
	return c.Put(ctx, withDevice("/me/player/shuffle", deviceID, map[string]string{
		"state": strconv.FormatBool(state),
	}), nil, nil)
}

// GetQueue returns the user's playback queue.
func (c *Client) GetQueue(ctx context.Context) (*Queue, error) {
	var queue Queue
	if err := c.Get(ctx, "/me/player/queue", &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// AddToQueue appends a track to the playback queue.
func (c *Client) AddToQueue(ctx context.Context, uri, deviceID string) error {
	return c.Post(ctx, withDevice("/me/player/queue", deviceID, map[string]string{
		"uri": uri,
	}), nil, nil)
}

// TransferPlayback moves playback to deviceID, starting it when play is set.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	body := map[string]any{
		"device_ids": []string{deviceID},
		"play":       play,
	}
	return c.Put(ctx, "/me/player", body, nil)
}
