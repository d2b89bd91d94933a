// Package player adapts the Spotify client to tempo's core types.
package player

import (
	"context"
	"sync"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/spotify/client"
)

// Player implements core.Player for Spotify Connect.
type Player struct {
	client *client.Client

	mu       sync.RWMutex
	deviceID string
}

// New creates a new Spotify player.
func New(c *client.Client) *Player {
	return &Player{client: c}
}

// SetDevice sets the target device for playback commands. Empty means the
// active device.
func (p *Player) SetDevice(deviceID string) {
	p.mu.Lock()
	p.deviceID = deviceID
	p.mu.Unlock()
}

// Device returns the target device id.
func (p *Player) Device() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.deviceID
}

// Play resumes playback.
func (p *Player) Play(ctx context.Context) error {
	err := p.client.Play(ctx, p.Device(), nil)
	if client.IsAlreadyPlayingError(err) {
		return nil
	}
	return wrapPlayerErr(err)
}

// Start begins playback of a track list or context.
func (p *Player) Start(ctx context.Context, req core.PlayRequest) error {
	device := req.DeviceID
	if device == "" {
		device = p.Device()
	}
	return wrapPlayerErr(p.client.Play(ctx, device, PlayOptions(req)))
}

// PlayOptions translates a request into the play endpoint body: a URI list
// with a position offset, a lone track, or a context with a position or
// track offset.
func PlayOptions(req core.PlayRequest) *client.PlayOptions {
	switch {
	case len(req.URIs) == 1 && req.ContextURI == "":
		return &client.PlayOptions{URIs: req.URIs}
	case len(req.URIs) > 0:
		return &client.PlayOptions{URIs: req.URIs, Offset: client.AtPosition(req.Offset)}
	case req.ContextURI != "" && req.OffsetURI != "":
		return &client.PlayOptions{ContextURI: req.ContextURI, Offset: client.AtURI(req.OffsetURI)}
	case req.ContextURI != "":
		return &client.PlayOptions{ContextURI: req.ContextURI, Offset: client.AtPosition(req.Offset)}
	}
	return nil
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context) error {
	return wrapPlayerErr(p.client.Pause(ctx, p.Device()))
}

// Next skips to the next track.
func (p *Player) Next(ctx context.Context) error {
	return wrapPlayerErr(p.client.Next(ctx, p.Device()))
}

// Prev skips to the previous track.
func (p *Player) Prev(ctx context.Context) error {
	return wrapPlayerErr(p.client.Previous(ctx, p.Device()))
}

// Seek seeks to a position in the current track.
func (p *Player) Seek(ctx context.Context, positionMs int) error {
	return wrapPlayerErr(p.client.Seek(ctx, positionMs, p.Device()))
}

// Volume sets the playback volume (0-100).
func (p *Player) Volume(ctx context.Context, percent int) error {
	return wrapPlayerErr(p.client.SetVolume(ctx, percent, p.Device()))
}

// Shuffle toggles shuffle.
func (p *Player) Shuffle(ctx context.Context, state bool) error {
	return wrapPlayerErr(p.client.SetShuffle(ctx, state, p.Device()))
}

// Repeat sets the repeat mode.
func (p *Player) Repeat(ctx context.Context, mode core.RepeatMode) error {
	return wrapPlayerErr(p.client.SetRepeat(ctx, string(mode), p.Device()))
}

// GetState returns the current playback state. An idle account yields an
// empty state rather than an error.
func (p *Player) GetState(ctx context.Context) (*core.PlaybackState, error) {
	state, err := p.client.GetPlaybackState(ctx)
	if err != nil {
		return nil, err
	}
	return ConvertState(state), nil
}

// GetQueue returns the current track followed by the upcoming queue.
func (p *Player) GetQueue(ctx context.Context) (*core.Queue, error) {
	queue, err := p.client.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	q := &core.Queue{Tracks: make([]core.Track, 0, len(queue.Queue)+1)}
	if queue.CurrentlyPlaying != nil {
		q.Tracks = append(q.Tracks, *ConvertTrack(queue.CurrentlyPlaying, core.SourcePlayer))
	} else {
		q.CurrentIndex = -1
	}
	for i := range queue.Queue {
		q.Tracks = append(q.Tracks, *ConvertTrack(&queue.Queue[i], core.SourcePlayer))
	}
	return q, nil
}

// GetRecentlyPlayed returns the user's recently played tracks.
func (p *Player) GetRecentlyPlayed(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	resp, err := p.client.GetRecentlyPlayed(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]core.HistoryEntry, len(resp.Items))
	for i := range resp.Items {
		entries[i] = core.HistoryEntry{
			Track:    ConvertTrack(&resp.Items[i].Track, core.SourcePlayer),
			PlayedAt: resp.Items[i].PlayedAt,
		}
	}
	return entries, nil
}

// AddToQueue adds a track to the playback queue.
func (p *Player) AddToQueue(ctx context.Context, trackURI string) error {
	return wrapPlayerErr(p.client.AddToQueue(ctx, trackURI, p.Device()))
}

// TransferPlayback moves playback to deviceID and targets it from now on.
func (p *Player) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	if err := p.client.TransferPlayback(ctx, deviceID, play); err != nil {
		return wrapPlayerErr(err)
	}
	p.SetDevice(deviceID)
	return nil
}

// GetDevices returns the user's available playback devices.
func (p *Player) GetDevices(ctx context.Context) ([]core.Device, error) {
	devices, err := p.client.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Device, len(devices))
	for i := range devices {
		out[i] = *ConvertDevice(&devices[i])
	}
	return out, nil
}

// ActiveDevice returns the active device, else the first available one.
func (p *Player) ActiveDevice(ctx context.Context) (*core.Device, error) {
	devices, err := p.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	d := core.PickDevice(devices)
	if d == nil {
		return nil, tempoerrors.ErrNoActiveDevice
	}
	return d, nil
}

func wrapPlayerErr(err error) error {
	if err == nil {
		return nil
	}
	if client.IsNoActiveDeviceError(err) {
		return tempoerrors.WithSuggestion(err, "Open Spotify on a device and start playing, or run 'tempo devices transfer'")
	}
	return err
}

var _ core.Player = (*Player)(nil)
