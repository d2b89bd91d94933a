package playback

import (
	"testing"
	"time"

	"github.com/tessro/tempo/internal/core"
)

func stateWith(uri string, playing bool, progress, duration time.Duration) *core.PlaybackState {
	s := &core.PlaybackState{
		IsPlaying: playing,
		Progress:  progress,
		Volume:    50,
		Repeat:    core.RepeatOff,
		Device:    &core.Device{ID: "dev1", Name: "Desk"},
	}
	if uri != "" {
		s.Track = &core.Track{URI: uri, Title: uri, Duration: duration}
	}
	return s
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestDiff(t *testing.T) {
	const min3 = 3 * time.Minute
	tests := []struct {
		name string
		prev *core.PlaybackState
		curr *core.PlaybackState
		want []EventType
	}{
		{
			name: "first snapshot with track",
			curr: stateWith("spotify:track:a", true, 0, min3),
			want: []EventType{EventTrackChange},
		},
		{
			name: "first snapshot idle",
			curr: stateWith("", false, 0, 0),
			want: nil,
		},
		{
			name: "completed track",
			prev: stateWith("spotify:track:a", true, 175*time.Second, min3),
			curr: stateWith("spotify:track:b", true, time.Second, min3),
			want: []EventType{EventTrackComplete},
		},
		{
			name: "skipped track",
			prev: stateWith("spotify:track:a", true, 30*time.Second, min3),
			curr: stateWith("spotify:track:b", true, 0, min3),
			want: []EventType{EventTrackSkip},
		},
		{
			name: "track after idle",
			prev: stateWith("", false, 0, 0),
			curr: stateWith("spotify:track:b", true, 0, min3),
			want: []EventType{EventTrackChange, EventResume},
		},
		{
			name: "pause",
			prev: stateWith("spotify:track:a", true, 10*time.Second, min3),
			curr: stateWith("spotify:track:a", false, 10*time.Second, min3),
			want: []EventType{EventPause},
		},
		{
			name: "unchanged",
			prev: stateWith("spotify:track:a", true, 10*time.Second, min3),
			curr: stateWith("spotify:track:a", true, 11*time.Second, min3),
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(Diff(tt.prev, tt.curr))
			if len(got) != len(tt.want) {
				t.Fatalf("Diff() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Diff()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDiff_VolumeDeviceMode(t *testing.T) {
	prev := stateWith("spotify:track:a", true, 0, time.Minute)
	curr := prev.Clone()
	curr.Volume = 80
	curr.Device = &core.Device{ID: "dev2"}
	curr.Shuffle = true

	got := types(Diff(prev, curr))
	want := []EventType{EventVolumeChange, EventDeviceChange, EventModeChange}
	if len(got) != len(want) {
		t.Fatalf("Diff() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Diff()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventTrackSkip.String(); got != "track_skip" {
		t.Errorf("String() = %q", got)
	}
	if got := EventType(99).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}
