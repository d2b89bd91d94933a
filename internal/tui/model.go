package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/history"
	"github.com/tessro/tempo/internal/logging"
	"github.com/tessro/tempo/internal/lyrics"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/tui/components"
	"github.com/tessro/tempo/internal/tui/styles"
)

// View is a dashboard tab.
type View int

const (
	ViewLibrary View = iota
	ViewSearch
	ViewStats
	ViewZen
	ViewYouTube
	ViewLive
	ViewDevices
	ViewQueue
	ViewHistory

	numViews
)

var viewNames = []string{"Library", "Search", "Stats", "Zen", "YouTube", "Live", "Devices", "Queue", "History"}

func (v View) String() string {
	if v < 0 || v >= numViews {
		return "Unknown"
	}
	return viewNames[v]
}

const (
	volumeStep = 5
	seekStep   = 10 * time.Second
)

// Model is the dashboard model.
type Model struct {
	app *App
	sub *playback.Subscription
	log *log.Logger
	now func() time.Time

	width    int
	height   int
	view     View
	showHelp bool
	quitting bool

	user    *core.User
	state   *core.PlaybackState
	queue   *core.Queue
	devices []core.Device
	history []history.Entry

	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	devicesView *components.Devices
	historyView *components.History

	library *libraryView
	search  *searchView
	stats   *statsView
	zen     *zenView
	youtube *videoView
	live    *videoView

	// trackURI is the track the lyrics and accent belong to.
	trackURI string
	lyrics   *lyrics.Lyrics

	lastError error
	errorSeq  int
}

// NewModel creates the dashboard over app and subscribes to its player.
func NewModel(app *App) Model {
	logger := app.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var youtube *videoView
	if app.YouTube != nil {
		youtube = newVideoView("YouTube", app.YouTube.Videos())
	} else {
		youtube = newVideoView("YouTube", nil)
	}

	m := Model{
		app:         app,
		sub:         app.Player.Subscribe(),
		log:         logger,
		now:         time.Now,
		state:       app.Player.State(),
		nowPlaying:  components.NewNowPlaying(),
		queueView:   components.NewQueue(),
		devicesView: components.NewDevices(),
		historyView: components.NewHistory(),
		library:     newLibraryView(app.Sort),
		search:      newSearchView(app),
		stats:       newStatsView(),
		zen:         newZenView(app.Zen),
		youtube:     youtube,
		live:        newVideoView("Live", app.Live),
	}
	if m.state.HasTrack() {
		m.trackURI = m.state.Track.URI
	}
	return m
}

// Init starts listening to the player and loads the first screen.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForActivity(m.sub),
		m.fetchProfile(),
		m.fetchPlaylists(),
		m.fetchQueue(),
		m.fetchDevices(),
		m.fetchHistory(),
	}
	if m.state.HasTrack() {
		cmds = append(cmds, m.fetchLyrics(m.state.Track), m.fetchAccent(m.state.Track))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.resize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		cmd := m.setState(msg)
		return m, tea.Batch(cmd, waitForActivity(m.sub))

	case positionMsg:
		if m.state != nil {
			m.state.Progress = msg.Position
		}
		m.syncLyric()
		return m, waitForActivity(m.sub)

	case eventMsg:
		var cmd tea.Cmd
		switch msg.Type {
		case playback.EventTrackComplete, playback.EventTrackSkip:
			cmd = m.fetchHistory()
		case playback.EventDeviceChange:
			cmd = m.fetchDevices()
		}
		return m, tea.Batch(cmd, waitForActivity(m.sub))

	case engineErrMsg:
		m.log.Debug("player error", "op", msg.Op, "err", msg.Err)
		cmd := m.showError(msg.Err)
		return m, tea.Batch(cmd, waitForActivity(m.sub))

	case engineDone:
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		return m, m.showError(msg.err)

	case clearErrorMsg:
		if msg.seq == m.errorSeq {
			m.lastError = nil
		}
		return m, nil

	case switchViewMsg:
		return m.switchView(View(msg))

	case changedMsg:
		return m, nil

	case profileMsg:
		m.user = msg
		return m, nil

	case queueMsg:
		m.queue = msg
		return m, nil

	case devicesMsg:
		m.devices = msg
		return m, nil

	case historyMsg:
		m.history = msg
		return m, nil

	case lyricsMsg:
		if msg.uri == m.trackURI {
			m.lyrics = msg.lyrics
			m.syncLyric()
		}
		return m, nil

	case accentMsg:
		if msg.uri == m.trackURI && len(msg.colors) > 0 {
			m.nowPlaying.Accent = msg.colors[0]
		}
		return m, nil

	case playlistsMsg:
		m.library.setPlaylists(msg)
		return m, nil

	case trackListMsg:
		m.library.openList(msg)
		return m, nil

	case statsMsg:
		m.stats.set(msg)
		return m, nil
	}

	// Blinks and search results belong to the search view.
	return m.updateSearch(msg)
}

// setState takes a new snapshot and starts the per-track fetches when the
// track changed.
func (m *Model) setState(st *core.PlaybackState) tea.Cmd {
	m.state = st
	uri := ""
	if st.HasTrack() {
		uri = st.Track.URI
	}
	if uri == m.trackURI {
		m.syncLyric()
		return nil
	}

	m.trackURI = uri
	m.lyrics = nil
	m.nowPlaying.Lyric = ""
	m.nowPlaying.Accent = ""
	if uri == "" {
		return nil
	}
	return tea.Batch(
		m.fetchLyrics(st.Track),
		m.fetchAccent(st.Track),
		m.fetchQueue(),
	)
}

func (m *Model) syncLyric() {
	if m.lyrics == nil || m.state == nil {
		m.nowPlaying.Lyric = ""
		return
	}
	if i := m.lyrics.LineAt(m.state.Progress); i >= 0 {
		m.nowPlaying.Lyric = m.lyrics.Lines[i].Text
	} else {
		m.nowPlaying.Lyric = ""
	}
}

func (m *Model) showError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	m.lastError = err
	m.errorSeq++
	seq := m.errorSeq
	return tea.Tick(errorLifetime, func(time.Time) tea.Msg {
		return clearErrorMsg{seq: seq}
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if cmd := m.zen.leave(); cmd != nil {
		return m, tea.Sequence(cmd, tea.Quit)
	}
	return m, tea.Quit
}

// typing reports whether a text input has the keyboard.
func (m Model) typing() bool {
	return m.view == ViewSearch || (m.view == ViewLibrary && m.library.typing())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.view == ViewSearch {
		return m.updateSearch(msg)
	}
	if m.typing() {
		return m, m.library.input(msg)
	}

	if cmd, ok := m.viewKey(key); ok {
		return m, cmd
	}

	p := m.app.Player
	switch key {
	case "q":
		return m.quit()
	case "?":
		m.showHelp = true
	case "tab":
		return m.switchView((m.view + 1) % numViews)
	case "shift+tab":
		return m.switchView((m.view + numViews - 1) % numViews)
	case "/":
		return m.switchView(ViewSearch)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.switchView(View(key[0] - '1'))

	case " ":
		return m, run(p.Toggle)
	case "n":
		return m, run(p.Next)
	case "p":
		return m, run(p.Prev)
	case "+", "=":
		return m, run(func(ctx context.Context) error { return p.AdjustVolume(ctx, volumeStep) })
	case "-":
		return m, run(func(ctx context.Context) error { return p.AdjustVolume(ctx, -volumeStep) })
	case ".":
		return m, run(func(ctx context.Context) error { return p.SeekBy(ctx, seekStep) })
	case ",":
		return m, run(func(ctx context.Context) error { return p.SeekBy(ctx, -seekStep) })
	case "s":
		return m, run(p.ToggleShuffle)
	case "r":
		return m, run(p.CycleRepeat)
	case "ctrl+r":
		return m, tea.Batch(m.fetchPlaylists(), m.fetchQueue(), m.fetchDevices(), m.fetchHistory())
	}
	return m, nil
}

// viewKey offers key to the current view first.
func (m *Model) viewKey(key string) (tea.Cmd, bool) {
	switch m.view {
	case ViewLibrary:
		return m.libraryKey(key)
	case ViewStats:
		return m.statsKey(key)
	case ViewZen:
		return m.zenKey(key)
	case ViewYouTube:
		return m.videoKey(m.youtube, key)
	case ViewLive:
		return m.videoKey(m.live, key)
	case ViewDevices:
		return m.devicesKey(key)
	case ViewQueue:
		return m.queueKey(key)
	case ViewHistory:
		return m.historyKey(key)
	}
	return nil, false
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v < 0 || v >= numViews || v == m.view {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.view == ViewZen {
		cmds = append(cmds, m.zen.leave())
	}
	m.view = v

	switch v {
	case ViewSearch:
		cmds = append(cmds, m.search.focus())
	case ViewStats:
		if m.stats.needsLoad() {
			m.stats.loading = true
			cmds = append(cmds, m.fetchStats(m.stats.timeRange()))
		}
	case ViewDevices:
		cmds = append(cmds, m.fetchDevices())
	case ViewQueue:
		cmds = append(cmds, m.fetchQueue())
	case ViewHistory:
		cmds = append(cmds, m.fetchHistory())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) devicesKey(key string) (tea.Cmd, bool) {
	switch key {
	case "j", "down":
		m.devicesView.SelectNext(len(m.devices))
	case "k", "up":
		m.devicesView.SelectPrev()
	case "enter":
		d := m.devicesView.Selected(m.devices)
		if d == nil {
			return nil, true
		}
		id, p := d.ID, m.app.Player
		return run(func(ctx context.Context) error { return p.Transfer(ctx, id, true) }), true
	case "d":
		d := m.devicesView.Selected(m.devices)
		if d == nil || m.app.SaveDefaultDevice == nil {
			return nil, true
		}
		if err := m.app.SaveDefaultDevice(d.Name); err != nil {
			return m.showError(err), true
		}
		m.app.DefaultDevice = d.Name
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) queueKey(key string) (tea.Cmd, bool) {
	if m.queue == nil {
		return nil, false
	}
	switch key {
	case "j", "down":
		m.queueView.SelectNext(m.queue)
	case "k", "up":
		m.queueView.SelectPrev()
	case "enter":
		t := m.queueView.Selected(m.queue)
		if t == nil {
			return nil, true
		}
		uri, p := t.URI, m.app.Player
		return tea.Batch(
			run(func(ctx context.Context) error { return p.PlayFromQueue(ctx, uri) }),
			m.fetchQueue(),
		), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) historyKey(key string) (tea.Cmd, bool) {
	switch key {
	case "j", "down":
		m.historyView.ScrollDown(len(m.history))
	case "k", "up":
		m.historyView.ScrollUp()
	default:
		return nil, false
	}
	return nil, true
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	name := ""
	if m.user != nil {
		name = m.user.DisplayName
	}
	header := components.Header(name, m.now(), viewNames, int(m.view), m.width)
	footer := lipgloss.JoinVertical(lipgloss.Left,
		m.nowPlaying.Render(m.state, m.width),
		m.renderStatusBar(),
	)
	height := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 3)

	body := lipgloss.NewStyle().Width(m.width).Height(height).MaxHeight(height).
		Render(m.renderView(m.width, height))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderView(width, height int) string {
	switch m.view {
	case ViewLibrary:
		return m.library.render(m.app.Library.Favorites, m.trackURI, width, height)
	case ViewSearch:
		return m.search.render()
	case ViewStats:
		return m.stats.render(width, height)
	case ViewZen:
		return m.zen.render(width, height)
	case ViewYouTube:
		return m.youtube.render(width, height)
	case ViewLive:
		return m.live.render(width, height)
	case ViewDevices:
		return m.devicesView.Render(m.devices, m.app.DefaultDevice, width-2, height-2, true)
	case ViewQueue:
		return m.queueView.Render(m.queue, width-2, height-2, true)
	case ViewHistory:
		return m.historyView.Render(m.history, width-2, height-2, true)
	}
	return ""
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  tab:views  space:play/pause  n/p:next/prev  +/-:volume  ,/.:seek")
	if m.lastError != nil {
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}
