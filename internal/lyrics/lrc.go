// Package lyrics fetches and parses synced LRC lyrics.
package lyrics

import (
	"bufio"
	"cmp"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Line is a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics are parsed lines sorted by time, with optional metadata.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string
}

// LineAt returns the index of the last line starting at or before pos, or -1
// before the first line.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if l == nil {
		return -1
	}
	idx := -1
	for i, line := range l.Lines {
		if line.Time > pos {
			break
		}
		idx = i
	}
	return idx
}

// Window returns up to before lines ahead of index i and after lines
// following it, with the position of i inside the window.
func (l *Lyrics) Window(i, before, after int) ([]Line, int) {
	if l == nil || len(l.Lines) == 0 {
		return nil, -1
	}
	center := max(i, 0)
	start := max(center-before, 0)
	end := min(center+after+1, len(l.Lines))
	return l.Lines[start:end], i - start
}

var (
	// [mm:ss], [mm:ss.xx], [mm:ss.xxx], [mm:ss:xx]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// [ar:Artist]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// ParseLRC parses LRC lyrics. Lines without text are dropped.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(line); meta != nil {
			value := strings.TrimSpace(meta[2])
			switch strings.ToLower(meta[1]) {
			case "ar":
				lyrics.Artist = value
			case "ti":
				lyrics.Title = value
			case "al":
				lyrics.Album = value
			}
			continue
		}

		matches := timestampRe.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}
		text := strings.TrimSpace(timestampRe.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}

		for _, m := range matches {
			lyrics.Lines = append(lyrics.Lines, Line{Time: timestamp(m), Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(lyrics.Lines, func(a, b Line) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return lyrics, nil
}

// timestamp converts a timestamp submatch to a duration.
func timestamp(m []string) time.Duration {
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])

	var millis int
	if frac := m[3]; frac != "" {
		millis, _ = strconv.Atoi(frac)
		switch len(frac) {
		case 1:
			millis *= 100
		case 2:
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}
