package wizard

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/tui/styles"
)

// SearchDebounce is how long typing must pause before a search is sent.
const SearchDebounce = 300 * time.Millisecond

const searchTimeout = 10 * time.Second

// SearchKind selects what to search for.
type SearchKind int

const (
	SearchAll SearchKind = iota
	SearchTracks
	SearchAlbums
	SearchArtists

	numKinds
)

var kindNames = []string{"All", "Tracks", "Albums", "Artists"}

func (k SearchKind) String() string {
	if k < 0 || k >= numKinds {
		return "Unknown"
	}
	return kindNames[k]
}

// SearchResult represents a search result item.
type SearchResult struct {
	ID       string
	URI      string
	Title    string
	Subtitle string
	Kind     SearchKind
	// Track is set for track results.
	Track *core.Track
}

// SearchFunc is a function that performs a search.
type SearchFunc func(ctx context.Context, query string, kind SearchKind) ([]SearchResult, error)

// Searcher is the catalogue search surface.
type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]core.Track, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]core.Album, error)
	SearchArtists(ctx context.Context, query string, limit int) ([]core.Artist, error)
}

// NewSearchFunc adapts src to a SearchFunc returning up to limit items per kind.
func NewSearchFunc(src Searcher, limit int) SearchFunc {
	return func(ctx context.Context, query string, kind SearchKind) ([]SearchResult, error) {
		var results []SearchResult

		if kind == SearchAll || kind == SearchTracks {
			tracks, err := src.SearchTracks(ctx, query, limit)
			if err != nil {
				return nil, err
			}
			for i := range tracks {
				t := tracks[i]
				results = append(results, SearchResult{
					ID:       t.ID,
					URI:      t.URI,
					Title:    t.Title,
					Subtitle: t.Artist,
					Kind:     SearchTracks,
					Track:    &t,
				})
			}
		}
		if kind == SearchAll || kind == SearchAlbums {
			albums, err := src.SearchAlbums(ctx, query, limit)
			if err != nil {
				return nil, err
			}
			for _, a := range albums {
				results = append(results, SearchResult{
					ID:       a.ID,
					URI:      a.URI,
					Title:    a.Name,
					Subtitle: strings.Join(a.Artists, ", ") + " (Album)",
					Kind:     SearchAlbums,
				})
			}
		}
		if kind == SearchAll || kind == SearchArtists {
			artists, err := src.SearchArtists(ctx, query, limit)
			if err != nil {
				return nil, err
			}
			for _, a := range artists {
				results = append(results, SearchResult{
					ID:       a.ID,
					URI:      a.URI,
					Title:    a.Name,
					Subtitle: "(Artist)",
					Kind:     SearchArtists,
				})
			}
		}
		return results, nil
	}
}

// SearchModel is the bubbletea model for the search wizard. On its own it
// quits on enter or esc; embedded in the dashboard it reports through the
// OnSelect and OnCancel callbacks instead.
type SearchModel struct {
	input      textinput.Model
	results    []SearchResult
	cursor     int
	kind       SearchKind
	searchFunc SearchFunc
	selected   *SearchResult
	err        error
	debounce   time.Duration
	lastQuery  string
	searching  bool
	width      int
	height     int

	onSelect func(SearchResult) tea.Cmd
	onCancel func() tea.Cmd
}

// SearchOption configures a SearchModel.
type SearchOption func(*SearchModel)

// WithKind sets the initial search kind.
func WithKind(k SearchKind) SearchOption {
	return func(m *SearchModel) { m.kind = k }
}

// OnSelect replaces the quit-on-enter behaviour.
func OnSelect(fn func(SearchResult) tea.Cmd) SearchOption {
	return func(m *SearchModel) { m.onSelect = fn }
}

// OnCancel replaces the quit-on-esc behaviour.
func OnCancel(fn func() tea.Cmd) SearchOption {
	return func(m *SearchModel) { m.onCancel = fn }
}

// NewSearchModel creates a new search wizard model.
func NewSearchModel(searchFunc SearchFunc, opts ...SearchOption) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search for tracks, albums, artists..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	m := SearchModel{
		input:      ti,
		searchFunc: searchFunc,
		debounce:   SearchDebounce,
		kind:       SearchAll,
		width:      80,
		height:     20,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model.
func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// debounceMsg is sent after the debounce period.
type debounceMsg struct {
	query string
}

// searchResultsMsg contains search results for query.
type searchResultsMsg struct {
	query   string
	kind    SearchKind
	results []SearchResult
	err     error
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.onCancel != nil {
				return m, m.onCancel()
			}
			return m, tea.Quit

		case "enter":
			if r, ok := m.Current(); ok {
				m.selected = &r
				if m.onSelect != nil {
					return m, m.onSelect(r)
				}
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			m.kind = (m.kind + 1) % numKinds
			cmd := m.research()
			return m, cmd

		case "shift+tab":
			m.kind = (m.kind + numKinds - 1) % numKinds
			cmd := m.research()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)

	case debounceMsg:
		if msg.query == m.input.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = msg.query != ""
			return m, m.doSearch(msg.query)
		}
		return m, nil

	case searchResultsMsg:
		if msg.query != m.lastQuery || msg.kind != m.kind {
			return m, nil
		}
		m.searching = false
		m.results = msg.results
		m.err = msg.err
		m.cursor = 0
		return m, nil
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	if query := m.input.Value(); query != m.lastQuery {
		cmds = append(cmds, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return debounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

func (m *SearchModel) research() tea.Cmd {
	if m.lastQuery == "" {
		return nil
	}
	m.searching = true
	return m.doSearch(m.lastQuery)
}

// doSearch performs the search.
func (m SearchModel) doSearch(query string) tea.Cmd {
	kind, fn := m.kind, m.searchFunc
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{query: query, kind: kind}
		}
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		results, err := fn(ctx, query, kind)
		return searchResultsMsg{query: query, kind: kind, results: results, err: err}
	}
}

// Current returns the result under the cursor.
func (m SearchModel) Current() (SearchResult, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return SearchResult{}, false
	}
	return m.results[m.cursor], true
}

// Results returns the latest results.
func (m SearchModel) Results() []SearchResult {
	return m.results
}

// Query returns the query the results belong to.
func (m SearchModel) Query() string {
	return m.lastQuery
}

// View renders the model.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("🔍 Search"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for k := SearchKind(0); k < numKinds; k++ {
		if k == m.kind {
			b.WriteString(styles.ActiveTab.Render(k.String()))
		} else {
			b.WriteString(styles.Tab.Render(k.String()))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorText.Render("Error: " + m.err.Error()))
	case m.searching:
		b.WriteString(styles.Muted.Render("Searching..."))
	case len(m.results) == 0 && m.lastQuery != "":
		b.WriteString(styles.Muted.Render("No results found"))
	default:
		maxResults := max(m.height-10, 5)
		for i, result := range m.results {
			if i >= maxResults {
				b.WriteString(styles.Dim.Render("  ...and more"))
				break
			}

			line := result.Title
			if result.Subtitle != "" {
				line += " " + styles.Subtitle.Render(result.Subtitle)
			}

			if i == m.cursor {
				b.WriteString(styles.Selected.Render("▸ " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ navigate • tab switch type • enter select • esc close"))

	return b.String()
}

// Selected returns the selected result, or nil if none.
func (m SearchModel) Selected() *SearchResult {
	return m.selected
}

// RunSearch runs the search wizard and returns the selected result.
func RunSearch(searchFunc SearchFunc) (*SearchResult, error) {
	p := tea.NewProgram(NewSearchModel(searchFunc), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(SearchModel).Selected(), nil
}
