package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/wizard"
)

var testDevices = []core.Device{
	{ID: "a1", Name: "Kitchen Speaker", Type: core.DeviceTypeSpeaker},
	{ID: "b2", Name: "MacBook Pro", Type: core.DeviceTypeComputer, IsActive: true},
	{ID: "c3", Name: "Kitchen", Type: core.DeviceTypeSpeaker},
}

func TestResolveDevice(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"by id", "b2", "b2"},
		{"exact name wins over partial", "kitchen", "c3"},
		{"partial name", "macbook", "b2"},
		{"case insensitive", "KITCHEN SPEAKER", "a1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := resolveDevice(testDevices, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.ID)
		})
	}

	_, err := resolveDevice(testDevices, "phone")
	assert.ErrorIs(t, err, tempoerrors.ErrDeviceNotFound)
}

func TestFindPlaylist(t *testing.T) {
	playlists := []core.Playlist{
		core.LikedSongs(120),
		{ID: "p1", URI: "spotify:playlist:p1", Name: "Road Trip Mix"},
		{ID: "p2", URI: "spotify:playlist:p2", Name: "Road"},
	}

	p, err := findPlaylist(playlists, "spotify:playlist:p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	p, err = findPlaylist(playlists, "road")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)

	p, err = findPlaylist(playlists, "trip")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	p, err = findPlaylist(playlists, "liked songs")
	require.NoError(t, err)
	assert.Equal(t, core.LikedSongsID, p.ID)

	_, err = findPlaylist(playlists, "jazz")
	assert.ErrorIs(t, err, tempoerrors.ErrPlaylistNotFound)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in       string
		want     time.Duration
		relative bool
	}{
		{"90", 90 * time.Second, false},
		{"1:30", 90 * time.Second, false},
		{"0:05", 5 * time.Second, false},
		{"+15", 15 * time.Second, true},
		{"-10", -10 * time.Second, true},
		{"-1:00", -time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, rel, err := parsePosition(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.relative, rel)
		})
	}

	for _, bad := range []string{"", "abc", "1:75", "1:xx", "+"} {
		_, _, err := parsePosition(bad)
		assert.Error(t, err, bad)
	}
}

func TestPick(t *testing.T) {
	names := []string{"Rain", "Ocean Waves", "Forest Rain"}

	i, err := pick(names, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = pick(names, "forest rain")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	i, err = pick(names, "rain")
	require.NoError(t, err)
	assert.Equal(t, 0, i, "exact name before partial")

	i, err = pick(names, "wave")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = pick(names, "4")
	assert.Error(t, err)
	_, err = pick(names, "0")
	assert.Error(t, err)
	_, err = pick(names, "thunder")
	assert.Error(t, err)
}

func TestParseSearchKind(t *testing.T) {
	for in, want := range map[string]wizard.SearchKind{
		"":       wizard.SearchAll,
		"all":    wizard.SearchAll,
		"track":  wizard.SearchTracks,
		"Albums": wizard.SearchAlbums,
		"artist": wizard.SearchArtists,
	} {
		got, err := parseSearchKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseSearchKind("podcast")
	assert.Error(t, err)
}

func TestOnDevice(t *testing.T) {
	ev := playback.Event{
		Type:    playback.EventResume,
		Current: &core.PlaybackState{Device: &testDevices[1]},
	}

	assert.True(t, onDevice(ev, ""))
	assert.True(t, onDevice(ev, "b2"))
	assert.True(t, onDevice(ev, "macbook pro"))
	assert.False(t, onDevice(ev, "Kitchen"))

	ev.Current = &core.PlaybackState{}
	assert.False(t, onDevice(ev, "b2"), "no device")
}
