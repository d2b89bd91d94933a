package zen

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tempo/internal/core"
)

type fakeController struct {
	mu      sync.Mutex
	starts  []core.PlayRequest
	repeats []core.RepeatMode
}

func (f *fakeController) Start(_ context.Context, req core.PlayRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, req)
	return nil
}

func (f *fakeController) SetRepeat(_ context.Context, mode core.RepeatMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repeats = append(f.repeats, mode)
	return nil
}

func (f *fakeController) modes() []core.RepeatMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.RepeatMode(nil), f.repeats...)
}

func testCatalogue() *Catalogue {
	return &Catalogue{
		Songs: []Song{
			{TrackID: "rain", Name: "Rain"},
			{TrackID: "waves", Name: "Waves"},
		},
		Wallpapers: []Wallpaper{{Name: "Forest"}, {Name: "Beach"}},
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "zen.json")
	data := `{"songs":[{"trackid":"abc","name":"Rain"}],"lwps":[{"name":"Forest","url":"https://example.com/f.mp4"}]}`
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))

	cat, err := Load(p)
	require.NoError(t, err)
	require.Len(t, cat.Songs, 1)
	assert.Equal(t, "spotify:track:abc", cat.Songs[0].URI())
	assert.Equal(t, "Forest", cat.Wallpapers[0].Name)
}

func TestLoad_RequiresSongs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "zen.yaml")
	require.NoError(t, os.WriteFile(p, []byte("songs: []\n"), 0o644))

	_, err := Load(p)
	assert.Error(t, err)
}

func TestSession_SelectSetsRepeatAfterDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctl := &fakeController{}
		s := NewSession(testCatalogue(), ctl, 0, nil)
		assert.False(t, s.Started())

		require.NoError(t, s.Start(t.Context()))
		assert.True(t, s.Started())
		require.Len(t, ctl.starts, 1)
		assert.Equal(t, []string{"spotify:track:rain"}, ctl.starts[0].URIs)
		assert.Empty(t, ctl.modes())

		time.Sleep(DefaultRepeatDelay + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []core.RepeatMode{core.RepeatTrack}, ctl.modes())

		require.NoError(t, s.Select(t.Context(), 1))
		i, song, ok := s.Song()
		assert.True(t, ok)
		assert.Equal(t, 1, i)
		assert.Equal(t, "Waves", song.Name)

		require.NoError(t, s.Close(t.Context()))
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, []core.RepeatMode{core.RepeatTrack, core.RepeatOff}, ctl.modes())
	})
}

func TestSession_Bounds(t *testing.T) {
	s := NewSession(testCatalogue(), &fakeController{}, time.Second, nil)
	assert.Error(t, s.Select(t.Context(), 5))
	assert.Error(t, s.SelectWallpaper(-1))

	require.NoError(t, s.SelectWallpaper(1))
	i, wp, ok := s.Wallpaper()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Beach", wp.Name)

	empty := NewSession(&Catalogue{}, &fakeController{}, 0, nil)
	assert.ErrorIs(t, empty.Start(t.Context()), ErrNoSongs)
	_, _, ok = empty.Song()
	assert.False(t, ok)
	_, _, ok = empty.Wallpaper()
	assert.False(t, ok)
}
