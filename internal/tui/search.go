package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/wizard"
)

const defaultSearchLimit = 20

// searchView embeds the search wizard. Picking a track plays the track
// results as a list; albums and artists play as contexts.
type searchView struct {
	model wizard.SearchModel
	limit int
}

func newSearchView(app *App) *searchView {
	limit := app.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	s := &searchView{limit: limit}
	s.model = wizard.NewSearchModel(wizard.NewSearchFunc(app.Catalog, limit),
		wizard.OnSelect(func(r wizard.SearchResult) tea.Cmd {
			return s.play(app.Player, r)
		}),
		wizard.OnCancel(func() tea.Cmd {
			return switchTo(ViewLibrary)
		}),
	)
	return s
}

func (s *searchView) play(p Player, r wizard.SearchResult) tea.Cmd {
	if r.Kind != wizard.SearchTracks {
		uri := r.URI
		return run(func(ctx context.Context) error {
			return p.Start(ctx, core.PlayContext(uri, 0))
		})
	}

	var tracks []core.Track
	for _, res := range s.model.Results() {
		if res.Track != nil {
			tracks = append(tracks, *res.Track)
		}
	}
	uri := r.URI
	return run(func(ctx context.Context) error {
		return p.PlayList(ctx, "", tracks, uri, 0)
	})
}

func (s *searchView) focus() tea.Cmd {
	return s.model.Init()
}

// chrome is the height taken by the header and the now playing bar.
const chrome = 12

func (s *searchView) resize(msg tea.WindowSizeMsg) {
	next, _ := s.model.Update(tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-chrome, 10)})
	s.model = next.(wizard.SearchModel)
}

func (s *searchView) update(msg tea.Msg) tea.Cmd {
	next, cmd := s.model.Update(msg)
	s.model = next.(wizard.SearchModel)
	return cmd
}

func (s *searchView) render() string {
	return s.model.View()
}

// updateSearch routes keys and the wizard's own messages to the search view.
// ctrl+q queues the highlighted track instead of playing it.
func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+q" {
		r, ok := m.search.model.Current()
		if !ok || r.Kind != wizard.SearchTracks {
			return m, nil
		}
		uri, p := r.URI, m.app.Player
		return m, run(func(ctx context.Context) error { return p.AddToQueue(ctx, uri) })
	}

	var cmds []tea.Cmd
	if _, ok := msg.(tea.KeyMsg); !ok && m.library.typing() {
		in := m.library.activeInput()
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.search.update(msg))
	return m, tea.Batch(cmds...)
}
