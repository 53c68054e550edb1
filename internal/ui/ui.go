package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"tunedeck/internal/collections"
	"tunedeck/internal/gateway"
	"tunedeck/internal/identity"
	"tunedeck/internal/models"
	"tunedeck/internal/picks"
	"tunedeck/internal/player"
	"tunedeck/internal/session"
	"tunedeck/internal/shared"
)

// tickInterval drives playback position refreshes and toast expiry.
const tickInterval = 500 * time.Millisecond

// seekStep is how far the arrow keys move the playhead, in seconds.
const seekStep = 5.0

// volumeStep is how much +/- adjust the volume.
const volumeStep = 0.05

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	gw        *gateway.Client
	engine    *player.Engine
	favorites *collections.Favorites
	picks     *picks.Store
	sess      *session.Manager
	ids       *identity.Provider

	width     int
	height    int
	trackList list.Model
	tracks    []models.Track
	ready     bool
	state     player.PlaybackState
	err       error
	help      help.Model
	keys      keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	play     key.Binding
	toggle   key.Binding
	next     key.Binding
	prev     key.Binding
	seekBack key.Binding
	seekFwd  key.Binding
	volUp    key.Binding
	volDown  key.Binding
	mute     key.Binding
	stop     key.Binding
	favorite key.Binding
	pick     key.Binding
	refresh  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek back"),
		),
		seekFwd: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek forward"),
		),
		volUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "louder"),
		),
		volDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "quieter"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		pick: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "pick"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.toggle, k.favorite, k.pick, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.toggle},
		{k.next, k.prev, k.seekBack, k.seekFwd},
		{k.volUp, k.volDown, k.mute, k.stop},
		{k.favorite, k.pick, k.refresh, k.quit},
	}
}

// trackItem wraps [models.Track] to implement list.Item.
type trackItem struct {
	track    models.Track
	favorite bool
	picked   bool
	playing  bool
}

func (i trackItem) FilterValue() string { return i.track.Title }

func (i trackItem) Title() string {
	title := i.track.Title
	var marks []string
	if i.playing {
		marks = append(marks, "▶")
	}
	if i.favorite {
		marks = append(marks, "♥")
	}
	if i.picked {
		marks = append(marks, "★")
	}
	if len(marks) > 0 {
		title = fmt.Sprintf("%s %s", strings.Join(marks, " "), title)
	}
	return title
}

func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.track.Artist, i.track.Genre)
	if i.track.DurationSeconds > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatClock(i.track.DurationSeconds))
	}
	return desc
}

type catalogFetchedMsg struct {
	tracks []models.Track
	err    error
}

type actionDoneMsg struct {
	err error
}

type tickMsg time.Time

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(
	ctx context.Context,
	gw *gateway.Client,
	engine *player.Engine,
	favorites *collections.Favorites,
	picksStore *picks.Store,
	sess *session.Manager,
	ids *identity.Provider,
) *Model {
	return &Model{
		ctx:       ctx,
		gw:        gw,
		engine:    engine,
		favorites: favorites,
		picks:     picksStore,
		sess:      sess,
		ids:       ids,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init fetches the catalog and starts the refresh tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalog(), tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.trackList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case catalogFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tracks = msg.tracks
		m.engine.SetPlaylist(msg.tracks, m.playlistIndex())
		m.rebuildList()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.sess.Toasts().Push(session.SeverityError, msg.err.Error())
		}
		m.rebuildItems()
		return m, nil

	case tickMsg:
		m.state = m.engine.State()
		m.rebuildItems()
		return m, tick()
	}

	return m.updateList(msg)
}

// View renders the catalog, the player bar and any active toasts.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if !m.ready {
		return styles.help.Render("Loading catalog...")
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n%s%s", m.trackList.View(), m.renderPlayerBar(), m.renderToasts(), helpView)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.play):
		if track, ok := m.selectedTrack(); ok {
			m.engine.SetPlaylist(m.tracks, m.trackList.Index())
			if err := m.engine.PlayTrack(track); err != nil {
				m.sess.Toasts().Push(session.SeverityError, err.Error())
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.toggle):
		if err := m.engine.TogglePlay(); err != nil {
			m.sess.Toasts().Push(session.SeverityError, err.Error())
		}
		return m, nil

	case key.Matches(msg, m.keys.next):
		if err := m.engine.Next(); err != nil {
			m.sess.Toasts().Push(session.SeverityError, err.Error())
		}
		return m, nil

	case key.Matches(msg, m.keys.prev):
		if err := m.engine.Previous(); err != nil {
			m.sess.Toasts().Push(session.SeverityError, err.Error())
		}
		return m, nil

	case key.Matches(msg, m.keys.seekBack):
		m.engine.SeekBy(-seekStep)
		return m, nil

	case key.Matches(msg, m.keys.seekFwd):
		m.engine.SeekBy(seekStep)
		return m, nil

	case key.Matches(msg, m.keys.volUp):
		m.engine.AdjustVolume(volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.volDown):
		m.engine.AdjustVolume(-volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.mute):
		m.engine.ToggleMute()
		return m, nil

	case key.Matches(msg, m.keys.stop):
		m.engine.Stop()
		return m, nil

	case key.Matches(msg, m.keys.favorite):
		if track, ok := m.selectedTrack(); ok {
			return m, m.toggleFavorite(track)
		}
		return m, nil

	case key.Matches(msg, m.keys.pick):
		if track, ok := m.selectedTrack(); ok {
			return m, m.togglePick(track)
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		m.gw.Cache().Invalidate(gateway.CacheCatalog)
		return m, m.fetchCatalog()
	}

	return m.updateList(msg)
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) selectedTrack() (models.Track, bool) {
	if !m.ready {
		return models.Track{}, false
	}
	selected := m.trackList.SelectedItem()
	if selected == nil {
		return models.Track{}, false
	}
	item, ok := selected.(trackItem)
	return item.track, ok
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.gw.ListCatalog(m.ctx, true)
		return catalogFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) toggleFavorite(track models.Track) tea.Cmd {
	return func() tea.Msg {
		ownerKey, _, err := m.ids.CurrentOwnerKey()
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if m.favorites.Contains(track.ID) {
			return actionDoneMsg{err: m.favorites.Remove(m.ctx, ownerKey, track.ID)}
		}
		return actionDoneMsg{err: m.favorites.Add(m.ctx, ownerKey, track.ID)}
	}
}

func (m *Model) togglePick(track models.Track) tea.Cmd {
	return func() tea.Msg {
		_, err := m.picks.Toggle(m.ctx, track.ID)
		return actionDoneMsg{err: err}
	}
}

func (m *Model) playlistIndex() int {
	if !m.ready {
		return 0
	}
	return m.trackList.Index()
}

func (m *Model) rebuildList() {
	items := m.buildItems()
	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = "Catalog"
	m.trackList.SetSize(m.width-4, m.height-10)
	m.ready = true
}

// rebuildItems refreshes the favorite/pick/playing markers in place without
// resetting the cursor.
func (m *Model) rebuildItems() {
	if !m.ready {
		return
	}
	m.trackList.SetItems(m.buildItems())
}

func (m *Model) buildItems() []list.Item {
	playingID := ""
	if m.state.Track != nil && m.state.Status == player.StatusPlaying {
		playingID = m.state.Track.ID
	}

	items := make([]list.Item, len(m.tracks))
	for i, track := range m.tracks {
		items[i] = trackItem{
			track:    track,
			favorite: m.favorites.Contains(track.ID),
			picked:   m.picks.Contains(track.ID),
			playing:  track.ID == playingID,
		}
	}
	return items
}

func (m *Model) renderPlayerBar() string {
	st := m.state

	if st.Track == nil {
		return styles.help.Render("Nothing playing")
	}

	var status string
	switch st.Status {
	case player.StatusLoading:
		status = styles.warn.Render("⏳")
	case player.StatusPlaying:
		status = styles.ok.Render("▶")
	case player.StatusPaused:
		status = styles.warn.Render("⏸")
	default:
		status = styles.help.Render("■")
	}

	clock := fmt.Sprintf("%s / %s", shared.FormatClock(st.Position), shared.FormatClock(st.Duration))

	volume := fmt.Sprintf("vol %d%%", int(st.Volume*100))
	if st.Muted {
		volume = "muted"
	}

	return fmt.Sprintf("%s %s - %s  %s  %s",
		status, st.Track.Artist, st.Track.Title, clock, styles.help.Render(volume))
}

func (m *Model) renderToasts() string {
	toasts := m.sess.Toasts().Active()
	if len(toasts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range toasts {
		switch t.Severity {
		case session.SeveritySuccess:
			b.WriteString(styles.ok.Render(t.Message))
		case session.SeverityError:
			b.WriteString(styles.err.Render(t.Message))
		case session.SeverityWarning:
			b.WriteString(styles.warn.Render(t.Message))
		default:
			b.WriteString(t.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
