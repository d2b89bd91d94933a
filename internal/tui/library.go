package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/tui/styles"
)

const (
	cardWidth  = 26
	cardHeight = 5
)

// libraryView is the playlist grid and, once a playlist is open, its tracks.
type libraryView struct {
	playlists []core.Playlist
	cursor    int
	filter    textinput.Model
	loading   bool
	opening   bool

	list         *library.TrackList
	order        library.SortOrder
	defaultOrder library.SortOrder
	trackCursor  int
	trackFilter  textinput.Model

	// picking is the add-to-playlist chooser.
	picking    bool
	pickCursor int
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.CharLimit = 60
	ti.Width = 30
	return ti
}

func newLibraryView(order library.SortOrder) *libraryView {
	if order == "" {
		order = library.SortDefault
	}
	return &libraryView{
		loading:      true,
		filter:       newFilterInput(),
		trackFilter:  newFilterInput(),
		order:        order,
		defaultOrder: order,
	}
}

func (l *libraryView) setPlaylists(p []core.Playlist) {
	l.loading = false
	l.playlists = p
	l.cursor = min(l.cursor, max(len(l.visiblePlaylists())-1, 0))
}

func (l *libraryView) openList(list *library.TrackList) {
	l.opening = false
	l.list = list
	l.trackCursor = 0
	l.trackFilter.Reset()
	l.trackFilter.Blur()
	l.order = l.defaultOrder
	l.picking = false
}

func (l *libraryView) closeList() {
	l.list = nil
	l.picking = false
}

func (l *libraryView) activeInput() *textinput.Model {
	if l.list != nil {
		return &l.trackFilter
	}
	return &l.filter
}

func (l *libraryView) typing() bool {
	return l.activeInput().Focused()
}

// input feeds a key to the focused filter. Enter keeps the term, esc clears it.
func (l *libraryView) input(msg tea.KeyMsg) tea.Cmd {
	in := l.activeInput()
	switch msg.String() {
	case "enter":
		in.Blur()
		return nil
	case "esc":
		in.Reset()
		in.Blur()
		l.cursor, l.trackCursor = 0, 0
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	l.cursor, l.trackCursor = 0, 0
	return cmd
}

func (l *libraryView) visiblePlaylists() []core.Playlist {
	return library.FilterPlaylists(l.playlists, l.filter.Value())
}

func (l *libraryView) visibleTracks() []core.Track {
	if l.list == nil {
		return nil
	}
	return library.Sort(library.Filter(l.list.Tracks(), l.trackFilter.Value()), l.order)
}

// targets are the playlists a track can be added to from the open list.
func (l *libraryView) targets() []core.Playlist {
	var out []core.Playlist
	for _, p := range l.playlists {
		if l.list != nil && p.ID == l.list.Playlist.ID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// playContext is the context to play the open list in. A filtered or
// re-sorted list no longer matches the playlist order, so it plays as URIs.
func (l *libraryView) playContext() string {
	if l.trackFilter.Value() != "" || l.order != library.SortDefault {
		return ""
	}
	return l.list.ContextURI()
}

func (m *Model) libraryKey(key string) (tea.Cmd, bool) {
	l := m.library
	if l.list == nil {
		return m.gridKey(key)
	}
	if l.picking {
		return m.pickerKey(key)
	}

	tracks := l.visibleTracks()
	switch key {
	case "esc", "backspace":
		l.closeList()
	case "j", "down":
		l.trackCursor = min(l.trackCursor+1, max(len(tracks)-1, 0))
	case "k", "up":
		l.trackCursor = max(l.trackCursor-1, 0)
	case "g", "home":
		l.trackCursor = 0
	case "G", "end":
		l.trackCursor = max(len(tracks)-1, 0)
	case "f":
		return l.trackFilter.Focus(), true
	case "o":
		l.order = l.order.Next()
		l.trackCursor = 0
	case "enter":
		if l.trackCursor >= len(tracks) {
			return nil, true
		}
		t, contextURI, p := tracks[l.trackCursor], l.playContext(), m.app.Player
		offset := l.trackCursor
		return run(func(ctx context.Context) error {
			return p.PlayList(ctx, contextURI, tracks, t.URI, offset)
		}), true
	case "l":
		if l.trackCursor >= len(tracks) {
			return nil, true
		}
		id, fav := tracks[l.trackCursor].ID, m.app.Library.Favorites
		return edit(func(ctx context.Context) error {
			_, err := fav.Toggle(ctx, id)
			return err
		}), true
	case "x", "delete":
		if l.trackCursor >= len(tracks) {
			return nil, true
		}
		uri, list, lib := tracks[l.trackCursor].URI, l.list, m.app.Library
		l.trackCursor = max(min(l.trackCursor, len(tracks)-2), 0)
		return edit(func(ctx context.Context) error {
			return lib.RemoveTrack(ctx, list, uri)
		}), true
	case "a":
		if l.trackCursor < len(tracks) && len(l.targets()) > 0 {
			l.picking = true
			l.pickCursor = 0
		}
	case "ctrl+q":
		if l.trackCursor >= len(tracks) {
			return nil, true
		}
		uri, p := tracks[l.trackCursor].URI, m.app.Player
		return run(func(ctx context.Context) error { return p.AddToQueue(ctx, uri) }), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) gridKey(key string) (tea.Cmd, bool) {
	l := m.library
	visible := l.visiblePlaylists()
	cols := max(m.width/cardWidth, 1)
	last := max(len(visible)-1, 0)

	switch key {
	case "h", "left":
		l.cursor = max(l.cursor-1, 0)
	case "l", "right":
		l.cursor = min(l.cursor+1, last)
	case "k", "up":
		if l.cursor-cols >= 0 {
			l.cursor -= cols
		}
	case "j", "down":
		if l.cursor+cols <= last {
			l.cursor += cols
		}
	case "f":
		return l.filter.Focus(), true
	case "esc":
		l.filter.Reset()
		l.cursor = 0
	case "enter":
		if l.cursor >= len(visible) || l.opening {
			return nil, true
		}
		l.opening = true
		return m.openPlaylist(visible[l.cursor]), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) pickerKey(key string) (tea.Cmd, bool) {
	l := m.library
	targets := l.targets()
	switch key {
	case "esc", "q":
		l.picking = false
	case "j", "down":
		l.pickCursor = min(l.pickCursor+1, max(len(targets)-1, 0))
	case "k", "up":
		l.pickCursor = max(l.pickCursor-1, 0)
	case "enter":
		l.picking = false
		tracks := l.visibleTracks()
		if l.pickCursor >= len(targets) || l.trackCursor >= len(tracks) {
			return nil, true
		}
		id, uri, lib := targets[l.pickCursor].ID, tracks[l.trackCursor].URI, m.app.Library
		return edit(func(ctx context.Context) error {
			return lib.AddTrack(ctx, id, uri)
		}), true
	}
	// The picker swallows everything else.
	return nil, true
}

func (l *libraryView) render(fav *library.Favorites, playingURI string, width, height int) string {
	if l.list != nil {
		if l.picking {
			return l.renderPicker(width, height)
		}
		return l.renderTracks(fav, playingURI, width, height)
	}
	return l.renderGrid(width, height)
}

func (l *libraryView) renderGrid(width, height int) string {
	title := styles.Title.Render("Your Library")
	if l.filter.Focused() || l.filter.Value() != "" {
		title += "  " + l.filter.View()
	}

	visible := l.visiblePlaylists()
	switch {
	case l.loading:
		return lipgloss.JoinVertical(lipgloss.Left, title, "", styles.Muted.Render("Loading playlists..."))
	case len(visible) == 0:
		return lipgloss.JoinVertical(lipgloss.Left, title, "", styles.Muted.Render("No playlists"))
	}

	cols := max(width/cardWidth, 1)
	rows := max((height-2)/cardHeight, 1)
	start := max(l.cursor/cols-rows+1, 0) * cols

	var lines []string
	for i := start; i < len(visible) && i < start+rows*cols; i += cols {
		var cards []string
		for j := i; j < min(i+cols, len(visible)); j++ {
			cards = append(cards, renderCard(visible[j], j == l.cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	hint := ""
	if l.opening {
		hint = styles.Muted.Render("Opening...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, hint, strings.Join(lines, "\n"))
}

func renderCard(p core.Playlist, selected bool) string {
	inner := cardWidth - 4
	name := styles.Title.Render(styles.Truncate(p.Name, inner))
	if p.IsLikedSongs() {
		name = styles.Playing.Render(styles.Truncate("♥ "+p.Name, inner))
	}
	return styles.Panel(selected).Width(cardWidth - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		name,
		styles.Muted.Render(humanize.Comma(int64(p.TrackCount))+" tracks"),
		styles.Dim.Render(styles.Truncate("by "+p.Owner, inner)),
	))
}

func (l *libraryView) renderTracks(fav *library.Favorites, playingURI string, width, height int) string {
	p := l.list.Playlist
	tracks := l.visibleTracks()

	head := styles.Title.Render(p.Name) + "  " +
		styles.Muted.Render(fmt.Sprintf("%d tracks • sort: %s", len(tracks), l.order))
	if l.trackFilter.Focused() || l.trackFilter.Value() != "" {
		head += "  " + l.trackFilter.View()
	}

	if len(tracks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, "", styles.Muted.Render("No tracks"))
	}

	// # ♥ title artist album time
	rest := max(width-4-2-6-4, 30)
	titleW, artistW := rest*4/10, rest*3/10
	albumW := rest - titleW - artistW

	maxRows := max(height-3, 1)
	start := max(l.trackCursor-maxRows+1, 0)

	lines := make([]string, 0, maxRows)
	for i := start; i < len(tracks) && len(lines) < maxRows; i++ {
		t := tracks[i]
		heart := "  "
		if fav != nil && fav.IsLiked(t.ID) {
			heart = "♥ "
		}
		line := fmt.Sprintf("%3d %s%-*s %-*s %-*s %5s",
			i+1, heart,
			titleW, styles.Truncate(t.Title, titleW),
			artistW, styles.Truncate(t.Artist, artistW),
			albumW, styles.Truncate(t.Album, albumW),
			core.FormatDuration(t.Duration),
		)
		switch {
		case i == l.trackCursor:
			line = styles.Selected.Render(line)
		case t.URI == playingURI:
			line = styles.Playing.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, head, "", strings.Join(lines, "\n"))
}

func (l *libraryView) renderPicker(width, height int) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Add to playlist"))
	b.WriteString("\n\n")

	targets := l.targets()
	start := max(l.pickCursor-(height-4)+1, 0)
	for i := start; i < len(targets) && i-start < height-4; i++ {
		name := styles.Truncate(targets[i].Name, width-4)
		if i == l.pickCursor {
			b.WriteString(styles.Selected.Render("▸ " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.Dim.Render("enter add • esc cancel"))
	return b.String()
}
