package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tempo/internal/core"
)

func artists(genres ...[]string) []core.Artist {
	out := make([]core.Artist, len(genres))
	for i, g := range genres {
		out[i] = core.Artist{Name: g[0], Genres: g}
	}
	return out
}

func TestTopGenres(t *testing.T) {
	as := artists(
		[]string{"trip hop", "electronica"},
		[]string{"trip hop", "bristol sound"},
		[]string{"trip hop", "electronica"},
		[]string{"ambient"},
	)

	got := TopGenres(as, 3)
	require.Len(t, got, 3)
	assert.Equal(t, Genre{Name: "trip hop", Count: 3, Percentage: 43}, got[0])
	assert.Equal(t, Genre{Name: "electronica", Count: 2, Percentage: 29}, got[1])
	// ambient and bristol sound tie at one mention; names break the tie.
	assert.Equal(t, Genre{Name: "ambient", Count: 1, Percentage: 14}, got[2])
}

func TestTopGenres_Empty(t *testing.T) {
	assert.Nil(t, TopGenres(nil, 5))
	assert.Nil(t, TopGenres([]core.Artist{{Name: "x"}}, 5))
}

func TestTopGenres_FewerThanN(t *testing.T) {
	got := TopGenres(artists([]string{"jazz"}), 5)
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].Percentage)
}

type fakeSource struct {
	artistErr error
}

func (f *fakeSource) TopArtists(_ context.Context, r core.TimeRange, limit int) ([]core.Artist, error) {
	if limit != TopLimit {
		return nil, errors.New("unexpected limit")
	}
	return artists([]string{"jazz"}, []string{"jazz", "soul"}), f.artistErr
}

func (f *fakeSource) TopTracks(_ context.Context, r core.TimeRange, _ int) ([]core.Track, error) {
	return []core.Track{{Title: "So What"}}, nil
}

func TestFetch(t *testing.T) {
	ov, err := Fetch(t.Context(), &fakeSource{}, "")
	require.NoError(t, err)
	assert.Equal(t, core.MediumTerm, ov.Range)
	assert.Len(t, ov.Artists, 2)
	assert.Len(t, ov.Tracks, 1)
	require.Len(t, ov.Genres, 2)
	assert.Equal(t, "jazz", ov.Genres[0].Name)
	assert.Equal(t, 67, ov.Genres[0].Percentage)
}

func TestFetch_Error(t *testing.T) {
	_, err := Fetch(t.Context(), &fakeSource{artistErr: errors.New("rate limited")}, core.ShortTerm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
