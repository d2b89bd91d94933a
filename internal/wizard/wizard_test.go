package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/tempo/internal/core"
)

type fakeSearcher struct {
	calls []string
	err   error
}

func (f *fakeSearcher) SearchTracks(_ context.Context, q string, limit int) ([]core.Track, error) {
	f.calls = append(f.calls, "tracks:"+q)
	if f.err != nil {
		return nil, f.err
	}
	return []core.Track{
		{ID: "t1", URI: "spotify:track:t1", Title: q + " one", Artist: "A"},
		{ID: "t2", URI: "spotify:track:t2", Title: q + " two", Artist: "B"},
	}, nil
}

func (f *fakeSearcher) SearchAlbums(_ context.Context, q string, limit int) ([]core.Album, error) {
	f.calls = append(f.calls, "albums:"+q)
	return []core.Album{{ID: "a1", URI: "spotify:album:a1", Name: "LP", Artists: []string{"A", "B"}}}, nil
}

func (f *fakeSearcher) SearchArtists(_ context.Context, q string, limit int) ([]core.Artist, error) {
	f.calls = append(f.calls, "artists:"+q)
	return []core.Artist{{ID: "r1", URI: "spotify:artist:r1", Name: "A"}}, nil
}

func TestNewSearchFunc(t *testing.T) {
	src := &fakeSearcher{}
	fn := NewSearchFunc(src, 5)

	all, err := fn(context.Background(), "q", SearchAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d results, want 4", len(all))
	}
	if all[0].Track == nil || all[0].Track.ID != "t1" || all[1].Track.ID != "t2" {
		t.Errorf("track results share or lose their track: %+v %+v", all[0].Track, all[1].Track)
	}
	if all[2].Subtitle != "A, B (Album)" {
		t.Errorf("album subtitle = %q", all[2].Subtitle)
	}

	src.calls = nil
	if _, err := fn(context.Background(), "q", SearchArtists); err != nil {
		t.Fatal(err)
	}
	if len(src.calls) != 1 || src.calls[0] != "artists:q" {
		t.Errorf("calls = %v, want only artists", src.calls)
	}

	src.err = errors.New("boom")
	if _, err := fn(context.Background(), "q", SearchTracks); err == nil {
		t.Error("expected error")
	}
}

func typeText(m SearchModel, s string) (SearchModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(SearchModel), cmd
}

func TestSearchModelDebounce(t *testing.T) {
	src := &fakeSearcher{}
	var picked SearchResult
	m := NewSearchModel(NewSearchFunc(src, 5),
		WithKind(SearchTracks),
		OnSelect(func(r SearchResult) tea.Cmd {
			picked = r
			return nil
		}))

	m, cmd := typeText(m, "abc")
	if cmd == nil {
		t.Fatal("typing should schedule a debounce")
	}
	if len(src.calls) != 0 {
		t.Fatal("search sent before debounce")
	}

	// A stale debounce for an older query is ignored.
	next, cmd := m.Update(debounceMsg{query: "ab"})
	m = next.(SearchModel)
	if cmd != nil {
		t.Error("stale debounce should not search")
	}

	next, cmd = m.Update(debounceMsg{query: "abc"})
	m = next.(SearchModel)
	if cmd == nil {
		t.Fatal("debounce should search")
	}
	next, _ = m.Update(cmd())
	m = next.(SearchModel)

	if got := len(m.Results()); got != 2 {
		t.Fatalf("got %d results, want 2", got)
	}
	if m.Query() != "abc" {
		t.Errorf("Query() = %q", m.Query())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(SearchModel)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if picked.ID != "t2" {
		t.Errorf("picked %q, want t2", picked.ID)
	}
}

func TestSearchModelDropsStaleResults(t *testing.T) {
	m := NewSearchModel(NewSearchFunc(&fakeSearcher{}, 5))
	m.lastQuery = "new"

	next, _ := m.Update(searchResultsMsg{query: "old", results: []SearchResult{{ID: "x"}}})
	if len(next.(SearchModel).Results()) != 0 {
		t.Error("results for an old query should be dropped")
	}
}

func TestSearchModelCancel(t *testing.T) {
	cancelled := false
	m := NewSearchModel(nil, OnCancel(func() tea.Cmd {
		cancelled = true
		return nil
	}))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !cancelled {
		t.Error("esc should call OnCancel")
	}
}

func TestDeviceModel(t *testing.T) {
	devices := []core.Device{
		{ID: "1", Name: "Phone"},
		{ID: "2", Name: "Laptop", IsActive: true},
		{ID: "3", Name: "Speaker"},
	}
	m := NewDeviceModel(devices, "")
	if m.cursor != 1 {
		t.Errorf("cursor starts at %d, want active device 1", m.cursor)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("enter should quit")
	}
	if got := next.(DeviceModel).Selected(); got == nil || got.ID != "3" {
		t.Errorf("Selected = %v, want 3", got)
	}
}

func TestDeviceModelStartsOnDefault(t *testing.T) {
	devices := []core.Device{
		{ID: "1", Name: "Phone"},
		{ID: "2", Name: "Kitchen"},
	}
	m := NewDeviceModel(devices, "kitchen")
	if m.cursor != 1 {
		t.Errorf("cursor starts at %d, want default device 1", m.cursor)
	}
	if !strings.Contains(m.View(), "Kitchen ★") {
		t.Error("default device should be starred")
	}

	m = NewDeviceModel(devices, "Garage")
	if m.cursor != 0 {
		t.Errorf("cursor starts at %d, want 0 for an unknown default", m.cursor)
	}
}

func TestActiveDevice(t *testing.T) {
	one := []core.Device{{ID: "a", IsActive: true}, {ID: "b"}}
	two := []core.Device{{ID: "a", IsActive: true}, {ID: "b", IsActive: true}}

	if d := ActiveDevice(one); d == nil || d.ID != "a" {
		t.Errorf("ActiveDevice(one) = %v", d)
	}
	if ActiveDevice(two) != nil {
		t.Error("two active devices should be ambiguous")
	}
	if NeedsDevice("", one) {
		t.Error("a single active device needs no prompt")
	}
	if !NeedsDevice("", two) {
		t.Error("ambiguous devices need a prompt")
	}
	if NeedsDevice("Kitchen", nil) {
		t.Error("an explicit device needs no prompt")
	}
}
