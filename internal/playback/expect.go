package playback

import (
	"time"

	"github.com/tessro/tempo/internal/core"
)

// seekTolerance is how far remote progress may drift from a seek target and
// still confirm it.
const seekTolerance = 2 * time.Second

type field int

const (
	fieldPlaying field = iota
	fieldTrack
	fieldLeaveTrack
	fieldProgress
	fieldVolume
	fieldShuffle
	fieldRepeat
	fieldDevice
)

// expectation is the effect of a local command that the remote has not
// confirmed yet. Until it is confirmed or expires it overrides the
// corresponding field of polled snapshots.
type expectation struct {
	id       string
	cmd      string
	field    field
	issued   time.Time
	deadline time.Time

	playing  bool
	uri      string
	track    *core.Track
	progress time.Duration
	volume   int
	shuffle  bool
	repeat   core.RepeatMode
	device   core.Device
}

func expectPlaying(v bool) expectation   { return expectation{field: fieldPlaying, playing: v} }
func expectTrack(uri string) expectation { return expectation{field: fieldTrack, uri: uri} }
func expectLeave(uri string) expectation { return expectation{field: fieldLeaveTrack, uri: uri} }
func expectProgress(d time.Duration) expectation {
	return expectation{field: fieldProgress, progress: d}
}
func expectVolume(v int) expectation             { return expectation{field: fieldVolume, volume: v} }
func expectShuffle(v bool) expectation           { return expectation{field: fieldShuffle, shuffle: v} }
func expectRepeat(m core.RepeatMode) expectation { return expectation{field: fieldRepeat, repeat: m} }
func expectDevice(d core.Device) expectation     { return expectation{field: fieldDevice, device: d} }

func trackURI(s *core.PlaybackState) string {
	if !s.HasTrack() {
		return ""
	}
	return s.Track.URI
}

// supersedes reports whether e replaces the older expectation old. A track
// change also invalidates any pending seek.
func (e expectation) supersedes(old expectation) bool {
	switch e.field {
	case fieldTrack, fieldLeaveTrack:
		return old.field == fieldTrack || old.field == fieldLeaveTrack || old.field == fieldProgress
	}
	return e.field == old.field
}

// confirmedBy reports whether the remote snapshot shows the expected effect.
func (e expectation) confirmedBy(s *core.PlaybackState, now time.Time) bool {
	switch e.field {
	case fieldPlaying:
		return s.IsPlaying == e.playing
	case fieldTrack:
		return trackURI(s) == e.uri
	case fieldLeaveTrack:
		return trackURI(s) != e.uri
	case fieldProgress:
		want := e.progress
		if s.IsPlaying {
			want += now.Sub(e.issued)
		}
		diff := s.Progress - want
		return diff > -seekTolerance && diff < seekTolerance
	case fieldVolume:
		return s.Volume == e.volume
	case fieldShuffle:
		return s.Shuffle == e.shuffle
	case fieldRepeat:
		return s.Repeat == e.repeat
	case fieldDevice:
		return s.DeviceID() == e.device.ID
	}
	return true
}

// apply writes the expected effect into s.
func (e expectation) apply(s *core.PlaybackState, now time.Time) {
	switch e.field {
	case fieldPlaying:
		s.IsPlaying = e.playing
	case fieldTrack:
		if trackURI(s) != e.uri {
			t := core.Track{URI: e.uri}
			if e.track != nil {
				t = *e.track
			}
			s.Track = &t
			s.Progress = 0
		}
	case fieldLeaveTrack:
		if trackURI(s) == e.uri {
			s.Progress = 0
		}
	case fieldProgress:
		p := e.progress
		if s.IsPlaying {
			p += now.Sub(e.issued)
		}
		if d := s.Duration(); d > 0 && p > d {
			p = d
		}
		s.Progress = p
	case fieldVolume:
		s.Volume = e.volume
		if s.Device != nil {
			s.Device.Volume = e.volume
		}
	case fieldShuffle:
		s.Shuffle = e.shuffle
	case fieldRepeat:
		s.Repeat = e.repeat
	case fieldDevice:
		d := e.device
		d.IsActive = true
		s.Device = &d
	}
}

// restore copies the field e touched from before into s.
func (e expectation) restore(s, before *core.PlaybackState) {
	switch e.field {
	case fieldPlaying:
		s.IsPlaying = before.IsPlaying
	case fieldTrack, fieldLeaveTrack:
		s.Track = before.Clone().Track
		s.Progress = before.Progress
	case fieldProgress:
		s.Progress = before.Progress
	case fieldVolume:
		s.Volume = before.Volume
		if s.Device != nil {
			s.Device.Volume = before.Volume
		}
	case fieldShuffle:
		s.Shuffle = before.Shuffle
	case fieldRepeat:
		s.Repeat = before.Repeat
	case fieldDevice:
		s.Device = before.Clone().Device
	}
}
