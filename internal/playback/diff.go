package playback

import (
	"time"

	"github.com/tessro/tempo/internal/core"
)

// completeThreshold is the share of a track that counts as listened through.
const completeThreshold = 0.95

// Diff compares two snapshots and returns the events between them.
func Diff(prev, curr *core.PlaybackState) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	ev := func(t EventType) Event {
		return Event{Type: t, Timestamp: now, Previous: prev, Current: curr}
	}

	if prev == nil {
		if curr.HasTrack() {
			return []Event{ev(EventTrackChange)}
		}
		return nil
	}

	var events []Event

	if trackChanged(prev, curr) {
		t := EventTrackChange
		if prev.HasTrack() {
			if completed(prev) {
				t = EventTrackComplete
			} else {
				t = EventTrackSkip
			}
		}
		events = append(events, ev(t))
	}

	switch {
	case prev.IsPlaying && !curr.IsPlaying:
		events = append(events, ev(EventPause))
	case !prev.IsPlaying && curr.IsPlaying:
		events = append(events, ev(EventResume))
	}

	if prev.Volume != curr.Volume {
		events = append(events, ev(EventVolumeChange))
	}
	if prev.DeviceID() != curr.DeviceID() {
		events = append(events, ev(EventDeviceChange))
	}
	if prev.Shuffle != curr.Shuffle || prev.Repeat != curr.Repeat {
		events = append(events, ev(EventModeChange))
	}

	return events
}

func trackChanged(prev, curr *core.PlaybackState) bool {
	if !prev.HasTrack() || !curr.HasTrack() {
		return prev.HasTrack() != curr.HasTrack()
	}
	return prev.Track.URI != curr.Track.URI
}

// completed reports whether the track in s was played close to its end.
func completed(s *core.PlaybackState) bool {
	d := s.Duration()
	if d == 0 {
		return false
	}
	return float64(s.Progress) >= float64(d)*completeThreshold
}
