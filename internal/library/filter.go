package library

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tessro/tempo/internal/core"
)

// SortOrder selects how a track list is ordered.
type SortOrder string

const (
	SortDefault  SortOrder = "default"
	SortTitle    SortOrder = "title"
	SortArtist   SortOrder = "artist"
	SortAlbum    SortOrder = "album"
	SortDuration SortOrder = "duration"
	SortAdded    SortOrder = "added"
)

// SortOrders lists the orders in the sequence the dashboard cycles them.
var SortOrders = []SortOrder{SortDefault, SortTitle, SortArtist, SortAlbum, SortDuration, SortAdded}

// ParseSortOrder validates s, treating "" as the default order.
func ParseSortOrder(s string) (SortOrder, bool) {
	if s == "" {
		return SortDefault, true
	}
	o := SortOrder(s)
	return o, slices.Contains(SortOrders, o)
}

// Next returns the order after o.
func (o SortOrder) Next() SortOrder {
	i := slices.Index(SortOrders, o)
	return SortOrders[(i+1)%len(SortOrders)]
}

// Filter returns the tracks whose title, artists or album contain term,
// ignoring case. An empty term returns tracks unchanged.
func Filter(tracks []core.Track, term string) []core.Track {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return tracks
	}
	var out []core.Track
	for _, t := range tracks {
		if matches(t, term) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t core.Track, term string) bool {
	if strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Album), term) ||
		strings.Contains(strings.ToLower(t.Artist), term) {
		return true
	}
	for _, a := range t.Artists {
		if strings.Contains(strings.ToLower(a), term) {
			return true
		}
	}
	return false
}

// FilterPlaylists returns the playlists whose name contains term.
func FilterPlaylists(playlists []core.Playlist, term string) []core.Playlist {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return playlists
	}
	var out []core.Playlist
	for _, p := range playlists {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy of tracks. The sort is stable so equal keys keep
// playlist order.
func Sort(tracks []core.Track, order SortOrder) []core.Track {
	out := slices.Clone(tracks)
	var less func(a, b core.Track) int
	switch order {
	case SortTitle:
		less = func(a, b core.Track) int { return fold(a.Title, b.Title) }
	case SortArtist:
		less = func(a, b core.Track) int { return fold(a.Artist, b.Artist) }
	case SortAlbum:
		less = func(a, b core.Track) int { return fold(a.Album, b.Album) }
	case SortDuration:
		less = func(a, b core.Track) int { return cmp.Compare(a.Duration, b.Duration) }
	case SortAdded:
		// Newest first.
		less = func(a, b core.Track) int { return b.AddedAt.Compare(a.AddedAt) }
	default:
		return out
	}
	slices.SortStableFunc(out, less)
	return out
}

func fold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
