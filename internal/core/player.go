package core

import (
	"context"
	"time"
)

// Player defines the interface for music playback control.
type Player interface {
	// Playback control
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Seek(ctx context.Context, positionMs int) error

	// Start begins playback of a track list or context.
	Start(ctx context.Context, req PlayRequest) error

	// Modes and volume
	Volume(ctx context.Context, percent int) error
	Shuffle(ctx context.Context, state bool) error
	Repeat(ctx context.Context, mode RepeatMode) error

	// Devices
	GetDevices(ctx context.Context) ([]Device, error)
	TransferPlayback(ctx context.Context, deviceID string, play bool) error

	// State queries
	GetState(ctx context.Context) (*PlaybackState, error)
	GetQueue(ctx context.Context) (*Queue, error)
	GetRecentlyPlayed(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Queue manipulation
	AddToQueue(ctx context.Context, trackURI string) error
}

// HistoryEntry represents a recently played track.
type HistoryEntry struct {
	Track    *Track
	PlayedAt time.Time
}

// PlayRequest describes what to start playing. Exactly one of URIs or
// ContextURI should be set. OffsetURI takes precedence over Offset.
type PlayRequest struct {
	DeviceID   string
	URIs       []string
	ContextURI string
	Offset     int
	OffsetURI  string
}

// PlayTracks builds a request for a list of track URIs starting at offset.
func PlayTracks(uris []string, offset int) PlayRequest {
	if offset < 0 || offset >= len(uris) {
		offset = 0
	}
	return PlayRequest{URIs: uris, Offset: offset}
}

// PlaySingle builds a request for one track.
func PlaySingle(uri string) PlayRequest {
	return PlayRequest{URIs: []string{uri}}
}

// PlayContext builds a request for a context starting at a position.
func PlayContext(contextURI string, offset int) PlayRequest {
	return PlayRequest{ContextURI: contextURI, Offset: offset}
}

// PlayContextAt builds a request for a context starting at a track.
func PlayContextAt(contextURI, trackURI string) PlayRequest {
	return PlayRequest{ContextURI: contextURI, OffsetURI: trackURI}
}

// OnDevice returns a copy of r targeting deviceID.
func (r PlayRequest) OnDevice(deviceID string) PlayRequest {
	r.DeviceID = deviceID
	return r
}

// FirstURI returns the track the request starts with, when known.
func (r PlayRequest) FirstURI() string {
	if r.OffsetURI != "" {
		return r.OffsetURI
	}
	if len(r.URIs) > 0 && r.Offset >= 0 && r.Offset < len(r.URIs) {
		return r.URIs[r.Offset]
	}
	return ""
}
