// Package stats summarizes the user's top artists, tracks and genres.
package stats

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/tessro/tempo/internal/core"
)

// TopLimit is how many artists and tracks are fetched.
const TopLimit = 50

// DefaultGenres is how many genres the overview shows.
const DefaultGenres = 5

// Source provides top items for a time range.
type Source interface {
	TopArtists(ctx context.Context, r core.TimeRange, limit int) ([]core.Artist, error)
	TopTracks(ctx context.Context, r core.TimeRange, limit int) ([]core.Track, error)
}

// Genre is one entry in the genre breakdown.
type Genre struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Overview is everything the stats view shows for one range.
type Overview struct {
	Range   core.TimeRange `json:"range"`
	Artists []core.Artist  `json:"artists"`
	Tracks  []core.Track   `json:"tracks"`
	Genres  []Genre        `json:"genres"`
}

// Fetch loads top artists and tracks concurrently.
func Fetch(ctx context.Context, src Source, r core.TimeRange) (*Overview, error) {
	if r == "" {
		r = core.MediumTerm
	}

	var (
		wg                  sync.WaitGroup
		artists             []core.Artist
		tracks              []core.Track
		artistErr, trackErr error
	)
	wg.Go(func() {
		artists, artistErr = src.TopArtists(ctx, r, TopLimit)
	})
	wg.Go(func() {
		tracks, trackErr = src.TopTracks(ctx, r, TopLimit)
	})
	wg.Wait()

	if err := errors.Join(artistErr, trackErr); err != nil {
		return nil, fmt.Errorf("fetch %s stats: %w", r, err)
	}

	return &Overview{
		Range:   r,
		Artists: artists,
		Tracks:  tracks,
		Genres:  TopGenres(artists, DefaultGenres),
	}, nil
}

// TopGenres counts every genre mention across artists and returns the n most
// frequent, ties broken by name. Percentages are of all mentions.
func TopGenres(artists []core.Artist, n int) []Genre {
	counts := make(map[string]int)
	total := 0
	for _, a := range artists {
		for _, g := range a.Genres {
			counts[g]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	genres := make([]Genre, 0, len(counts))
	for name, c := range counts {
		genres = append(genres, Genre{
			Name:       name,
			Count:      c,
			Percentage: int(math.Round(float64(c) / float64(total) * 100)),
		})
	}
	slices.SortFunc(genres, func(a, b Genre) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if n > 0 && len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
