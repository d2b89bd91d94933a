package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// printJSON writes v to stdout as a single JSON document.
func printJSON(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}

// report prints a status line, or status and fields as JSON.
func report(status, line string, fields map[string]any) error {
	if JSONOutput() {
		out := map[string]any{"status": status}
		for k, v := range fields {
			out[k] = v
		}
		return printJSON(out)
	}
	fmt.Println(line)
	return nil
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// Bar renders percent (0-100) as a bar width cells wide.
func Bar(percent float64, width int) string {
	filled := min(max(int(percent/100*float64(width)), 0), width)
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// FormatProgress formats a progress bar.
func FormatProgress(current, total time.Duration, width int) string {
	if total <= 0 {
		return strings.Repeat("─", width)
	}
	return Bar(float64(current)/float64(total)*100, width)
}

func trackJSON(t *core.Track) map[string]any {
	if t == nil {
		return nil
	}
	return map[string]any{
		"id":       t.ID,
		"title":    t.Title,
		"artist":   t.Artist,
		"album":    t.Album,
		"duration": t.Duration.String(),
		"uri":      t.URI,
	}
}

func tracksJSON(tracks []core.Track) []map[string]any {
	out := make([]map[string]any, len(tracks))
	for i := range tracks {
		out[i] = trackJSON(&tracks[i])
	}
	return out
}

// printTracks lists tracks as a numbered table.
func printTracks(tracks []core.Track) {
	t := NewTable("#", "TITLE", "ARTIST", "ALBUM", "TIME")
	for i, tr := range tracks {
		t.Row(
			fmt.Sprint(i+1),
			styles.Truncate(tr.Title, 40),
			styles.Truncate(tr.Artist, 30),
			styles.Truncate(tr.Album, 30),
			core.FormatDuration(tr.Duration),
		)
	}
	t.Flush()
}
