// Package playback keeps a local view of the Spotify player in sync with
// commands issued from tempo and with the state Spotify reports back.
package playback

import (
	"time"

	"github.com/tessro/tempo/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventVolumeChange
	EventDeviceChange
	EventModeChange
)

func (t EventType) String() string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventVolumeChange:
		return "volume_change"
	case EventDeviceChange:
		return "device_change"
	case EventModeChange:
		return "mode_change"
	}
	return "unknown"
}

// IsTrack reports whether t is about the track itself changing.
func (t EventType) IsTrack() bool {
	return t == EventTrackChange || t == EventTrackComplete || t == EventTrackSkip
}

// Event is a change between two consecutive player snapshots.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// PositionChange is emitted on every position tick and on seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted when a command or poll fails.
type ErrorEvent struct {
	Op  string
	Err error
}
