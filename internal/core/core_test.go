package core

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{3*time.Minute + 25*time.Second, "3:25"},
		{61*time.Minute + time.Second, "61:01"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestURIKinds(t *testing.T) {
	tests := []struct {
		uri     string
		track   bool
		context bool
	}{
		{"spotify:track:abc", true, false},
		{"spotify:playlist:abc", false, true},
		{"spotify:album:abc", false, true},
		{"liked-songs", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := IsTrackURI(tt.uri); got != tt.track {
			t.Errorf("IsTrackURI(%q) = %v, want %v", tt.uri, got, tt.track)
		}
		if got := IsContextURI(tt.uri); got != tt.context {
			t.Errorf("IsContextURI(%q) = %v, want %v", tt.uri, got, tt.context)
		}
	}
}

func TestPickDevice(t *testing.T) {
	if PickDevice(nil) != nil {
		t.Error("PickDevice(nil) should be nil")
	}

	devices := []Device{{ID: "a"}, {ID: "b", IsActive: true}}
	if got := PickDevice(devices); got.ID != "b" {
		t.Errorf("PickDevice() = %q, want %q", got.ID, "b")
	}

	devices[1].IsActive = false
	if got := PickDevice(devices); got.ID != "a" {
		t.Errorf("PickDevice() = %q, want %q", got.ID, "a")
	}
}

func TestPlayRequestFirstURI(t *testing.T) {
	uris := []string{"spotify:track:1", "spotify:track:2"}

	if got := PlayTracks(uris, 1).FirstURI(); got != uris[1] {
		t.Errorf("FirstURI() = %q, want %q", got, uris[1])
	}
	if got := PlayTracks(uris, 7).Offset; got != 0 {
		t.Errorf("out of range offset = %d, want 0", got)
	}
	if got := PlayContextAt("spotify:album:x", uris[0]).FirstURI(); got != uris[0] {
		t.Errorf("FirstURI() = %q, want %q", got, uris[0])
	}
	if got := PlayContext("spotify:album:x", 3).FirstURI(); got != "" {
		t.Errorf("FirstURI() = %q, want empty", got)
	}
}

func TestPlaybackStateClone(t *testing.T) {
	s := &PlaybackState{
		Track:  &Track{ID: "1", Artists: []string{"A"}},
		Device: &Device{ID: "d"},
	}
	c := s.Clone()
	c.Track.Artists[0] = "B"
	c.Device.ID = "e"
	if s.Track.Artists[0] != "A" || s.Device.ID != "d" {
		t.Error("Clone() shares memory with the original")
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := map[string]RepeatMode{
		"off": RepeatOff, "track": RepeatTrack, "context": RepeatContext,
		"all": RepeatContext, "one": RepeatTrack,
	}
	for in, want := range tests {
		got, ok := ParseRepeatMode(in)
		if !ok || got != want {
			t.Errorf("ParseRepeatMode(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseRepeatMode("sometimes"); ok {
		t.Error("ParseRepeatMode(sometimes) should fail")
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in   string
		want TimeRange
		ok   bool
	}{
		{"", MediumTerm, true},
		{"short", ShortTerm, true},
		{"long_term", LongTerm, true},
		{"forever", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTimeRange(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTimeRange(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestQueue(t *testing.T) {
	var nilQueue *Queue
	if nilQueue.Current() != nil || nilQueue.Upcoming() != nil || !nilQueue.IsEmpty() {
		t.Error("nil queue should be empty")
	}

	q := &Queue{Tracks: []Track{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	if q.Current().ID != "a" || len(q.Upcoming()) != 2 {
		t.Errorf("Current() = %v, Upcoming() = %v", q.Current(), q.Upcoming())
	}

	q.CurrentIndex = -1
	if q.Current() != nil || len(q.Upcoming()) != 3 {
		t.Error("with no current track the whole queue is upcoming")
	}

	q.CurrentIndex = 2
	if q.Upcoming() != nil {
		t.Error("nothing is upcoming after the last track")
	}
}

func TestQueueNext(t *testing.T) {
	q := &Queue{Tracks: []Track{
		{ID: "a", Duration: time.Minute},
		{ID: "b", Duration: 2 * time.Minute},
		{ID: "c", Duration: 3 * time.Minute},
	}}

	if tr, ok := q.Next(1); !ok || tr.ID != "b" {
		t.Errorf("Next(1) = %v, %v, want b", tr, ok)
	}
	if tr, ok := q.Next(2); !ok || tr.ID != "c" {
		t.Errorf("Next(2) = %v, %v, want c", tr, ok)
	}
	for _, pos := range []int{0, 3, -1} {
		if _, ok := q.Next(pos); ok {
			t.Errorf("Next(%d) should be out of range", pos)
		}
	}
	if got := q.Remaining(); got != 5*time.Minute {
		t.Errorf("Remaining() = %v, want 5m", got)
	}

	var nilQueue *Queue
	if _, ok := nilQueue.Next(1); ok || nilQueue.Remaining() != 0 {
		t.Error("nil queue has nothing next")
	}
}
