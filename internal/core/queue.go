package core

import "time"

// Queue is the player's queue: the current track followed by what is up next.
type Queue struct {
	Tracks       []Track `json:"tracks"`
	CurrentIndex int     `json:"current_index"`
}

// Current returns the currently playing track, or nil.
func (q *Queue) Current() *Track {
	if q == nil || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks) {
		return nil
	}
	return &q.Tracks[q.CurrentIndex]
}

// Upcoming returns the tracks after the current one. With no current track
// the whole queue is upcoming.
func (q *Queue) Upcoming() []Track {
	if q == nil {
		return nil
	}
	start := max(q.CurrentIndex+1, 0)
	if start >= len(q.Tracks) {
		return nil
	}
	return q.Tracks[start:]
}

// Next returns the upcoming track at a 1-based position.
func (q *Queue) Next(pos int) (Track, bool) {
	up := q.Upcoming()
	if pos < 1 || pos > len(up) {
		return Track{}, false
	}
	return up[pos-1], true
}

// Remaining is the total length of the upcoming tracks.
func (q *Queue) Remaining() time.Duration {
	var d time.Duration
	for _, t := range q.Upcoming() {
		d += t.Duration
	}
	return d
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q == nil || len(q.Tracks) == 0
}
