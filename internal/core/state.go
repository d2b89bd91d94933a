package core

import "time"

// RepeatMode is the player's repeat setting.
type RepeatMode string

const (
	RepeatOff     RepeatMode = "off"
	RepeatTrack   RepeatMode = "track"
	RepeatContext RepeatMode = "context"
)

// ParseRepeatMode validates s as a repeat mode.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	switch RepeatMode(s) {
	case RepeatOff, RepeatTrack, RepeatContext:
		return RepeatMode(s), true
	case "all":
		return RepeatContext, true
	case "one":
		return RepeatTrack, true
	}
	return "", false
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Track      *Track        `json:"track"`
	Device     *Device       `json:"device"`
	IsPlaying  bool          `json:"is_playing"`
	Progress   time.Duration `json:"progress" hash:"ignore"`
	Volume     int           `json:"volume"`
	Shuffle    bool          `json:"shuffle"`
	Repeat     RepeatMode    `json:"repeat"`
	ContextURI string        `json:"context_uri,omitempty"`

	// Timestamp is when the state was observed.
	Timestamp time.Time `json:"timestamp" hash:"ignore"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// Duration returns the current track's duration, or zero.
func (s *PlaybackState) Duration() time.Duration {
	if !s.HasTrack() {
		return 0
	}
	return s.Track.Duration
}

// DeviceID returns the id of the playing device, or "".
func (s *PlaybackState) DeviceID() string {
	if s == nil || s.Device == nil {
		return ""
	}
	return s.Device.ID
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Track.Duration) * 100
}

// Clone returns a copy that shares no pointers with s.
func (s *PlaybackState) Clone() *PlaybackState {
	if s == nil {
		return nil
	}
	c := *s
	if s.Track != nil {
		t := *s.Track
		t.Artists = append([]string(nil), s.Track.Artists...)
		c.Track = &t
	}
	if s.Device != nil {
		d := *s.Device
		c.Device = &d
	}
	return &c
}
