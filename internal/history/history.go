// Package history keeps a local record of what was played.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/playback"
)

// Outcome is how a play ended.
type Outcome string

const (
	Played    Outcome = "played"
	Completed Outcome = "completed"
	Skipped   Outcome = "skipped"
)

// Entry is one play.
type Entry struct {
	TrackID  string        `json:"track_id"`
	URI      string        `json:"uri"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
	PlayedAt time.Time     `json:"played_at"`
	Outcome  Outcome       `json:"outcome"`
}

// NewEntry builds an entry for t.
func NewEntry(t *core.Track, at time.Time, outcome Outcome) Entry {
	return Entry{
		TrackID:  t.ID,
		URI:      t.URI,
		Title:    t.Title,
		Artist:   t.Artist,
		Album:    t.Album,
		Duration: t.Duration,
		PlayedAt: at,
		Outcome:  outcome,
	}
}

// TrackCount is a track with its number of plays.
type TrackCount struct {
	Entry
	Plays int `json:"plays"`
}

// Store is a SQLite-backed history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if path == ":memory:" {
		// Each connection would get its own database.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure history: %w", err)
		}
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores e. A second entry for the same track and time is ignored.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.URI == "" {
		return nil
	}
	if e.Outcome == "" {
		e.Outcome = Played
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO plays
			(track_id, uri, title, artist, album, duration_ms, played_at, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TrackID, e.URI, e.Title, e.Artist, e.Album,
		e.Duration.Milliseconds(), e.PlayedAt.UnixMilli(), string(e.Outcome),
	)
	if err != nil {
		return fmt.Errorf("record play: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, uri, title, artist, album, duration_ms, played_at, outcome
		FROM plays
		ORDER BY played_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e           Entry
			dur, played int64
			outcome     string
		)
		if err := rows.Scan(&e.TrackID, &e.URI, &e.Title, &e.Artist, &e.Album, &dur, &played, &outcome); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(dur) * time.Millisecond
		e.PlayedAt = time.UnixMilli(played)
		e.Outcome = Outcome(outcome)
		out = append(out, e)
	}
	return out, rows.Err()
}

// TopTracks returns the most played tracks since a time. Skips do not count.
func (s *Store) TopTracks(ctx context.Context, since time.Time, limit int) ([]TrackCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, uri, MAX(title), MAX(artist), MAX(album), MAX(duration_ms),
			MAX(played_at) AS last, COUNT(*) AS plays
		FROM plays
		WHERE played_at >= ? AND outcome != ?
		GROUP BY uri
		ORDER BY plays DESC, last DESC
		LIMIT ?`, since.UnixMilli(), string(Skipped), limit)
	if err != nil {
		return nil, fmt.Errorf("query top tracks: %w", err)
	}
	defer rows.Close()

	var out []TrackCount
	for rows.Next() {
		var (
			tc          TrackCount
			dur, played int64
		)
		if err := rows.Scan(&tc.TrackID, &tc.URI, &tc.Title, &tc.Artist, &tc.Album, &dur, &played, &tc.Plays); err != nil {
			return nil, err
		}
		tc.Duration = time.Duration(dur) * time.Millisecond
		tc.PlayedAt = time.UnixMilli(played)
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Import records entries from Spotify's recently played list.
func (s *Store) Import(ctx context.Context, entries []core.HistoryEntry) (int, error) {
	n := 0
	for _, h := range entries {
		if h.Track == nil {
			continue
		}
		if err := s.Record(ctx, NewEntry(h.Track, h.PlayedAt, Played)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// FromEvent returns the entry a playback event should record: completed and
// skipped tracks are recorded with their outcome.
func FromEvent(ev playback.Event) (Entry, bool) {
	switch ev.Type {
	case playback.EventTrackComplete, playback.EventTrackSkip:
		if !ev.Previous.HasTrack() {
			return Entry{}, false
		}
		outcome := Skipped
		if ev.Type == playback.EventTrackComplete {
			outcome = Completed
		}
		return NewEntry(ev.Previous.Track, ev.Timestamp, outcome), true
	}
	return Entry{}, false
}

// Follow records events from sub until it closes or ctx is done. Failed
// writes are passed to onErr when it is non-nil.
func (s *Store) Follow(ctx context.Context, sub *playback.Subscription, onErr func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case ev := <-sub.Events:
			e, ok := FromEvent(ev)
			if !ok {
				continue
			}
			if err := s.Record(ctx, e); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
