package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// Queue displays the playback queue. The cursor moves over upcoming tracks.
type Queue struct {
	offset   int
	selected int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// SelectNext moves the cursor down.
func (q *Queue) SelectNext(queue *core.Queue) {
	if q.selected < len(queue.Upcoming())-1 {
		q.selected++
	}
}

// SelectPrev moves the cursor up.
func (q *Queue) SelectPrev() {
	if q.selected > 0 {
		q.selected--
	}
}

// Selected returns the upcoming track under the cursor, or nil.
func (q *Queue) Selected(queue *core.Queue) *core.Track {
	up := queue.Upcoming()
	if len(up) == 0 {
		return nil
	}
	q.selected = min(max(q.selected, 0), len(up)-1)
	return &up[q.selected]
}

// Render renders the queue panel
func (q *Queue) Render(queue *core.Queue, width, height int, focused bool) string {
	title := styles.PanelTitle("Queue", focused)

	var content string
	if queue.IsEmpty() {
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderQueue(queue, width-4, height-4, focused)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (q *Queue) renderQueue(queue *core.Queue, width, maxLines int, focused bool) string {
	lines := make([]string, 0, maxLines)

	if cur := queue.Current(); cur != nil {
		lines = append(lines, styles.Playing.Render("▶ "+trackLine(*cur, width-2)))
	}

	up := queue.Upcoming()
	q.Selected(queue)

	visible := max(maxLines-len(lines)-1, 1)
	if q.selected < q.offset {
		q.offset = q.selected
	}
	if q.selected >= q.offset+visible {
		q.offset = q.selected - visible + 1
	}
	end := min(q.offset+visible, len(up))

	for i := q.offset; i < end; i++ {
		num := styles.Dim.Render(fmt.Sprintf("%2d.", i+1))
		line := trackLine(up[i], width-6)
		if focused && i == q.selected {
			lines = append(lines, fmt.Sprintf("%s ▸ %s", num, styles.Highlight.Render(line)))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s   %s", num, line))
	}

	if end < len(up) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(up)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// trackLine fits the title and artist into width, giving the artist at least a
// third of the space.
func trackLine(t core.Track, width int) string {
	const sep = " — "
	available := width - len([]rune(sep))
	title, artist := []rune(t.Title), []rune(t.Artist)
	if len(title)+len(artist) <= available {
		return t.Title + sep + t.Artist
	}

	artistSpace := min(max(available/3, 8), len(artist))
	return styles.Truncate(t.Title, available-artistSpace) + sep + styles.Truncate(t.Artist, artistSpace)
}
