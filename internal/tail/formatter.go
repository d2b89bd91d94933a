// Package tail renders playback events as log lines for `tempo tail`.
package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/playback"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	format        string
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom text/template format.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		f.format = tmpl
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) (*Formatter, error) {
	f := &Formatter{showEmoji: true}
	for _, opt := range opts {
		opt(f)
	}
	if f.format != "" {
		t, err := template.New("format").Parse(f.format)
		if err != nil {
			return nil, fmt.Errorf("parse format: %w", err)
		}
		f.template = t
	}
	return f, nil
}

// Format formats an event as a string.
func (f *Formatter) Format(e playback.Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// FormatHistory formats a recently played entry, oldest lines first.
func (f *Formatter) FormatHistory(h core.HistoryEntry) string {
	var parts []string
	if f.showTimestamp {
		parts = append(parts, h.PlayedAt.Local().Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, "⏪")
	}
	parts = append(parts, fmt.Sprintf("%s - %s (%s)", h.Track.Artist, h.Track.Title, humanize.Time(h.PlayedAt)))
	return strings.Join(parts, " ")
}

func (f *Formatter) formatLine(e playback.Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, describe(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e playback.Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if s := e.Current; s != nil {
		data.Volume = s.Volume
		data.Shuffle = s.Shuffle
		data.Repeat = string(s.Repeat)
		if s.Track != nil {
			data.Title = s.Track.Title
			data.Artist = s.Track.Artist
			data.Album = s.Track.Album
			data.URI = s.Track.URI
			data.Duration = core.FormatDuration(s.Track.Duration)
		}
		if s.Device != nil {
			data.Device = s.Device.Name
		}
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Album     string
	URI       string
	Duration  string
	Device    string
	Volume    int
	Shuffle   bool
	Repeat    string
}

func describe(e playback.Event) string {
	switch e.Type {
	case playback.EventTrackChange:
		if e.Current.HasTrack() {
			return fmt.Sprintf("Now playing: %s - %s", e.Current.Track.Artist, e.Current.Track.Title)
		}
		return "Stopped"

	case playback.EventTrackComplete:
		if e.Previous.HasTrack() {
			return fmt.Sprintf("Finished: %s - %s", e.Previous.Track.Artist, e.Previous.Track.Title)
		}
		return "Track completed"

	case playback.EventTrackSkip:
		if e.Previous.HasTrack() {
			return fmt.Sprintf("Skipped: %s - %s", e.Previous.Track.Artist, e.Previous.Track.Title)
		}
		return "Track skipped"

	case playback.EventPause:
		return "Paused"

	case playback.EventResume:
		return "Resumed"

	case playback.EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.Volume)
		}
		return "Volume changed"

	case playback.EventDeviceChange:
		if e.Current != nil && e.Current.Device != nil {
			return fmt.Sprintf("Device: %s", e.Current.Device.Name)
		}
		return "Device changed"

	case playback.EventModeChange:
		if e.Current != nil {
			shuffle := "off"
			if e.Current.Shuffle {
				shuffle = "on"
			}
			return fmt.Sprintf("Shuffle %s, repeat %s", shuffle, e.Current.Repeat)
		}
		return "Mode changed"
	}
	return "Unknown event"
}

func eventEmoji(t playback.EventType) string {
	switch t {
	case playback.EventTrackChange:
		return "🎵"
	case playback.EventTrackComplete:
		return "✅"
	case playback.EventTrackSkip:
		return "⏭️"
	case playback.EventPause:
		return "⏸️"
	case playback.EventResume:
		return "▶️"
	case playback.EventVolumeChange:
		return "🔊"
	case playback.EventDeviceChange:
		return "📱"
	case playback.EventModeChange:
		return "🔁"
	}
	return "❓"
}
