package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/playback"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func track(id string) *core.Track {
	return &core.Track{ID: id, URI: core.TrackURI(id), Title: "Title " + id, Artist: "Artist", Album: "Album", Duration: 3 * time.Minute}
}

func TestRecordAndRecent(t *testing.T) {
	s := openTest(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(t.Context(), NewEntry(track("a"), base, Completed)))
	require.NoError(t, s.Record(t.Context(), NewEntry(track("b"), base.Add(time.Minute), Skipped)))
	require.NoError(t, s.Record(t.Context(), NewEntry(track("c"), base.Add(2*time.Minute), "")))
	// Duplicate of the first play.
	require.NoError(t, s.Record(t.Context(), NewEntry(track("a"), base, Completed)))

	got, err := s.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Title c", got[0].Title)
	assert.Equal(t, Played, got[0].Outcome)
	assert.Equal(t, Skipped, got[1].Outcome)
	assert.Equal(t, 3*time.Minute, got[2].Duration)
	assert.True(t, got[2].PlayedAt.Equal(base))

	got, err = s.Recent(t.Context(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTopTracks(t *testing.T) {
	s := openTest(t)
	base := time.Now().Add(-time.Hour)

	for i := range 3 {
		require.NoError(t, s.Record(t.Context(), NewEntry(track("a"), base.Add(time.Duration(i)*time.Minute), Completed)))
	}
	require.NoError(t, s.Record(t.Context(), NewEntry(track("b"), base.Add(10*time.Minute), Played)))
	for i := range 5 {
		require.NoError(t, s.Record(t.Context(), NewEntry(track("skip"), base.Add(time.Duration(20+i)*time.Minute), Skipped)))
	}
	require.NoError(t, s.Record(t.Context(), NewEntry(track("old"), base.Add(-48*time.Hour), Completed)))

	top, err := s.TopTracks(t.Context(), base.Add(-time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, core.TrackURI("a"), top[0].URI)
	assert.Equal(t, 3, top[0].Plays)
	assert.Equal(t, 1, top[1].Plays)
}

func TestImport(t *testing.T) {
	s := openTest(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n, err := s.Import(t.Context(), []core.HistoryEntry{
		{Track: track("a"), PlayedAt: at},
		{Track: nil, PlayedAt: at},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Importing again does not duplicate.
	_, err = s.Import(t.Context(), []core.HistoryEntry{{Track: track("a"), PlayedAt: at}})
	require.NoError(t, err)
	got, err := s.Recent(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFromEvent(t *testing.T) {
	prev := &core.PlaybackState{Track: track("a")}
	now := time.Now()

	e, ok := FromEvent(playback.Event{Type: playback.EventTrackComplete, Previous: prev, Timestamp: now})
	require.True(t, ok)
	assert.Equal(t, Completed, e.Outcome)
	assert.Equal(t, core.TrackURI("a"), e.URI)

	e, ok = FromEvent(playback.Event{Type: playback.EventTrackSkip, Previous: prev, Timestamp: now})
	require.True(t, ok)
	assert.Equal(t, Skipped, e.Outcome)

	_, ok = FromEvent(playback.Event{Type: playback.EventPause, Previous: prev})
	assert.False(t, ok)
	_, ok = FromEvent(playback.Event{Type: playback.EventTrackSkip})
	assert.False(t, ok)
}

func TestOpenMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Record(t.Context(), NewEntry(track("a"), time.Now(), Played)))
	got, err := s.Recent(t.Context(), 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
