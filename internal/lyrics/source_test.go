package lyrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestSource_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/abc.lrc" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("[00:01.00]hello\n"))
	}))
	defer srv.Close()

	cache := t.TempDir()
	s := NewSource(srv.URL+"/", cache)

	l, err := s.Fetch(context.Background(), "abc.lrc")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(l.Lines) != 1 || l.Lines[0].Text != "hello" {
		t.Errorf("lines = %+v", l.Lines)
	}
	if _, err := os.Stat(filepath.Join(cache, "abc.lrc")); err != nil {
		t.Errorf("not cached: %v", err)
	}

	if _, err := s.Fetch(context.Background(), "abc.lrc"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewSource(srv.URL, "")
	_, err := s.Fetch(context.Background(), "missing.lrc")
	if !IsMissing(err) {
		t.Errorf("error = %v, want missing", err)
	}

	_, err = s.Fetch(context.Background(), "")
	if !IsMissing(err) {
		t.Errorf("empty name error = %v", err)
	}
}

func TestSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL, "").Fetch(context.Background(), "x.lrc")
	if err == nil || IsMissing(err) {
		t.Errorf("error = %v", err)
	}
}

func TestSource_StripsDirectories(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte("[00:01]x"))
	}))
	defer srv.Close()

	if _, err := NewSource(srv.URL, "").Fetch(context.Background(), "../../etc/song.lrc"); err != nil {
		t.Fatal(err)
	}
	if path != "/song.lrc" {
		t.Errorf("path = %q", path)
	}
}
