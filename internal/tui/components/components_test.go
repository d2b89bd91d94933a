package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/history"
)

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
	}
	for _, tt := range tests {
		if got := Greeting(tt.hour); got != tt.want {
			t.Errorf("Greeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func testQueue() *core.Queue {
	return &core.Queue{
		CurrentIndex: 0,
		Tracks: []core.Track{
			{URI: "spotify:track:0", Title: "Now", Artist: "A"},
			{URI: "spotify:track:1", Title: "One", Artist: "B"},
			{URI: "spotify:track:2", Title: "Two", Artist: "C"},
		},
	}
}

func TestQueueSelection(t *testing.T) {
	q := NewQueue()
	queue := testQueue()

	if got := q.Selected(queue); got == nil || got.URI != "spotify:track:1" {
		t.Fatalf("initial selection = %v, want track 1", got)
	}

	q.SelectNext(queue)
	q.SelectNext(queue)
	if got := q.Selected(queue); got.URI != "spotify:track:2" {
		t.Errorf("selection past end = %s, want track 2", got.URI)
	}

	q.SelectPrev()
	q.SelectPrev()
	if got := q.Selected(queue); got.URI != "spotify:track:1" {
		t.Errorf("selection before start = %s, want track 1", got.URI)
	}

	if q.Selected(&core.Queue{}) != nil {
		t.Error("empty queue should have no selection")
	}
}

func TestQueueRender(t *testing.T) {
	out := NewQueue().Render(testQueue(), 60, 12, true)
	for _, want := range []string{"Now — A", "One — B", "Two — C"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestDevicesRender(t *testing.T) {
	devices := []core.Device{
		{ID: "1", Name: "Laptop", Type: core.DeviceTypeComputer, IsActive: true},
		{ID: "2", Name: "Kitchen", Type: core.DeviceTypeSpeaker},
	}
	d := NewDevices()
	out := d.Render(devices, "Kitchen", 50, 10, true)
	if !strings.Contains(out, "Laptop") || !strings.Contains(out, "★") {
		t.Errorf("render = %q", out)
	}

	d.SelectNext(len(devices))
	d.SelectNext(len(devices))
	if got := d.Selected(devices); got.ID != "2" {
		t.Errorf("Selected = %s, want 2", got.ID)
	}
	if d.Selected(nil) != nil {
		t.Error("no devices should select nothing")
	}
}

func TestHistoryRender(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewHistory()
	h.now = func() time.Time { return now }

	entries := []history.Entry{
		{Title: "Song", Artist: "Band", PlayedAt: now.Add(-3 * time.Minute), Outcome: history.Skipped},
	}
	out := h.Render(entries, 70, 8, false)
	for _, want := range []string{"Song — Band", "3 minutes ago", "⏭"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestFromRecent(t *testing.T) {
	at := time.Now()
	got := FromRecent([]core.HistoryEntry{
		{Track: &core.Track{URI: "spotify:track:x", Title: "X"}, PlayedAt: at},
		{Track: nil, PlayedAt: at},
	})
	if len(got) != 1 || got[0].Outcome != history.Played || got[0].Title != "X" {
		t.Errorf("FromRecent = %+v", got)
	}
}

func TestNowPlayingRender(t *testing.T) {
	n := NewNowPlaying()
	if out := n.Render(nil, 80); !strings.Contains(out, "No track playing") {
		t.Errorf("idle render = %q", out)
	}

	n.Lyric = "hello darkness"
	n.Accent = "#c82864"
	state := &core.PlaybackState{
		Track:     &core.Track{Title: "Sound of Silence", Artist: "S&G", Duration: 3 * time.Minute},
		Device:    &core.Device{Name: "Laptop", Type: core.DeviceTypeComputer},
		IsPlaying: true,
		Progress:  time.Minute,
		Volume:    40,
		Repeat:    core.RepeatTrack,
	}
	out := n.Render(state, 100)
	for _, want := range []string{"Sound of Silence", "1:00", "3:00", "Laptop", "40%", "↻ one", "hello darkness"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
