package player

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"
)

func TestLibraryPlaylistTracksPages(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl/tracks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		switch offset {
		case 0:
			fmt.Fprint(w, `{"items":[
				{"added_at":"2024-01-02T00:00:00Z","track":{"id":"1","uri":"spotify:track:1","name":"One"}},
				{"added_at":"2024-01-03T00:00:00Z","track":null}
			],"next":"page2"}`)
		case 2:
			fmt.Fprint(w, `{"items":[{"added_at":"2024-01-04T00:00:00Z","track":{"id":"2","uri":"spotify:track:2","name":"Two"}}]}`)
		default:
			t.Errorf("unexpected offset %d", offset)
		}
	})

	tracks, err := NewLibrary(c, 2, "").PlaylistTracks(context.Background(), "pl")
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("len = %d, want 2 (null entries skipped)", len(tracks))
	}
	if tracks[0].Title != "One" || tracks[1].AddedAt.Day() != 4 {
		t.Errorf("tracks = %+v", tracks)
	}
}

func TestLibraryPlaylists(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"id":"p1","name":"Road","owner":{"id":"u","display_name":""},"tracks":{"total":9}}]}`)
	})
	pls, err := NewLibrary(c, 0, "").Playlists(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pls) != 1 || pls[0].Owner != "u" || pls[0].TrackCount != 9 {
		t.Errorf("Playlists() = %+v", pls)
	}
}

func TestLibrarySearchKinds(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "artist":
			fmt.Fprint(w, `{"artists":{"items":[{"id":"a","name":"Aimer","genres":["j-pop"]}]}}`)
		case "album":
			fmt.Fprint(w, `{"albums":{"items":[{"id":"b","name":"Daydream","artists":[{"name":"Aimer"}]}]}}`)
		default:
			fmt.Fprint(w, `{"tracks":{"items":[]}}`)
		}
	})
	lib := NewLibrary(c, 50, "JP")
	ctx := context.Background()

	artists, err := lib.SearchArtists(ctx, "aimer", 10)
	if err != nil || len(artists) != 1 || artists[0].Genres[0] != "j-pop" {
		t.Errorf("SearchArtists() = %+v, %v", artists, err)
	}
	albums, err := lib.SearchAlbums(ctx, "daydream", 10)
	if err != nil || len(albums) != 1 || albums[0].Artists[0] != "Aimer" {
		t.Errorf("SearchAlbums() = %+v, %v", albums, err)
	}
	tracks, err := lib.SearchTracks(ctx, "nothing", 0)
	if err != nil || len(tracks) != 0 {
		t.Errorf("SearchTracks() = %+v, %v", tracks, err)
	}
}
