package core

import (
	"fmt"
	"strings"
	"time"
)

// Source indicates where a track was loaded from.
type Source string

const (
	SourcePlaylist Source = "playlist"
	SourceLiked    Source = "liked"
	SourceSearch   Source = "search"
	SourceTop      Source = "top"
	SourcePlayer   Source = "player"
)

// Track represents a playable audio track.
type Track struct {
	ID          string        `json:"id"`
	URI         string        `json:"uri"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Artists     []string      `json:"artists"`
	Album       string        `json:"album"`
	AlbumArtURL string        `json:"album_art_url,omitempty"`
	Duration    time.Duration `json:"duration"`
	AddedAt     time.Time     `json:"added_at,omitzero"`
	Source      Source        `json:"source,omitempty"`
}

// TrackURI returns the canonical track URI for a track id.
func TrackURI(id string) string {
	return "spotify:track:" + id
}

// IsTrackURI reports whether uri names a single track.
func IsTrackURI(uri string) bool {
	return strings.Contains(uri, ":track:")
}

// IsContextURI reports whether uri is a playable Spotify context.
func IsContextURI(uri string) bool {
	return strings.HasPrefix(uri, "spotify:") && !IsTrackURI(uri)
}

// URIs returns the URIs of tracks in order.
func URIs(tracks []Track) []string {
	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		uris = append(uris, t.URI)
	}
	return uris
}

// IndexOf returns the index of the track with the given URI, or -1.
func IndexOf(tracks []Track, uri string) int {
	for i, t := range tracks {
		if t.URI == uri {
			return i
		}
	}
	return -1
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
