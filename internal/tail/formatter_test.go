package tail

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/playback"
)

func sample() *core.PlaybackState {
	return &core.PlaybackState{
		Track:     &core.Track{Title: "Teardrop", Artist: "Massive Attack", URI: "spotify:track:t", Duration: 5*time.Minute + 29*time.Second},
		Device:    &core.Device{ID: "d", Name: "Desk"},
		IsPlaying: true,
		Volume:    42,
		Repeat:    core.RepeatContext,
	}
}

func mustFormatter(t *testing.T, opts ...FormatterOption) *Formatter {
	t.Helper()
	f, err := NewFormatter(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFormatLine(t *testing.T) {
	f := mustFormatter(t, WithEmoji(false))
	ts := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC)

	tests := []struct {
		event playback.Event
		want  string
	}{
		{playback.Event{Type: playback.EventTrackChange, Current: sample()}, "Now playing: Massive Attack - Teardrop"},
		{playback.Event{Type: playback.EventTrackSkip, Previous: sample()}, "Skipped: Massive Attack - Teardrop"},
		{playback.Event{Type: playback.EventTrackComplete, Previous: sample()}, "Finished: Massive Attack - Teardrop"},
		{playback.Event{Type: playback.EventVolumeChange, Current: sample()}, "Volume: 42%"},
		{playback.Event{Type: playback.EventDeviceChange, Current: sample()}, "Device: Desk"},
		{playback.Event{Type: playback.EventModeChange, Current: sample()}, "Shuffle off, repeat context"},
		{playback.Event{Type: playback.EventPause}, "Paused"},
	}
	for _, tt := range tests {
		tt.event.Timestamp = ts
		if got := f.Format(tt.event); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.event.Type, got, tt.want)
		}
	}
}

func TestFormatTimestampAndEmoji(t *testing.T) {
	f := mustFormatter(t, WithTimestamp(true))
	ts := time.Date(2024, 3, 1, 12, 30, 5, 0, time.Local)
	got := f.Format(playback.Event{Type: playback.EventResume, Timestamp: ts})
	if got != "12:30:05 ▶️ Resumed" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatTemplate(t *testing.T) {
	f := mustFormatter(t, WithTemplate("{{.Type}}|{{.Artist}}|{{.Duration}}|{{.Device}}"))
	got := f.Format(playback.Event{Type: playback.EventTrackChange, Current: sample()})
	if got != "track_change|Massive Attack|5:29|Desk" {
		t.Errorf("Format() = %q", got)
	}
}

func TestNewFormatter_BadTemplate(t *testing.T) {
	if _, err := NewFormatter(WithTemplate("{{.Type")); err == nil {
		t.Error("expected parse error")
	}
}

func TestFormatHistory(t *testing.T) {
	f := mustFormatter(t, WithEmoji(false))
	got := f.FormatHistory(core.HistoryEntry{Track: sample().Track, PlayedAt: time.Now().Add(-3 * time.Hour)})
	if !strings.HasPrefix(got, "Massive Attack - Teardrop (3 hours ago") {
		t.Errorf("FormatHistory() = %q", got)
	}
}
