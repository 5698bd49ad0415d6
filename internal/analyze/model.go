package analyze

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lakshaymaurya-felt/diskmap/internal/status"
	"github.com/lakshaymaurya-felt/diskmap/internal/ui"
)

const (
	headerHeight = 3
	footerHeight = 2
)

// ─── Messages ────────────────────────────────────────────────────────────────

// navChangedMsg is delivered whenever the Navigator reports a change.
type navChangedMsg struct{}

type usageMsg struct {
	usage *status.Usage
	err   error
}

func waitForChange(nav *Navigator) tea.Cmd {
	return func() tea.Msg {
		<-nav.Changed()
		return navChangedMsg{}
	}
}

func readUsage(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		u, err := status.Read(ctx, path)
		return usageMsg{usage: u, err: err}
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model of the interactive treemap. All tree and
// navigation state lives in the Navigator; the Model keeps only what the
// screen needs.
type Model struct {
	nav    *Navigator
	path   string
	inset  float64
	logger *slog.Logger
	keys   keyMap

	spinner spinner.Model
	bar     progress.Model
	usage   *status.Usage

	width    int
	height   int
	rects    []TreemapRect
	selected int
	shown    NodeID // node whose children rects describe
	quitting bool
}

// NewModel creates the TUI for scanning path. The scan starts in Init.
func NewModel(nav *Navigator, path string, inset float64, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		nav:     nav,
		path:    path,
		inset:   inset,
		logger:  logger,
		keys:    defaultKeyMap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		width:   80,
		height:  24,
		shown:   NoNode,
	}
}

func (m Model) Init() tea.Cmd {
	m.nav.StartScan(m.path)
	return tea.Batch(m.spinner.Tick, waitForChange(m.nav), readUsage(m.path))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-10))
		m.relayout()
		return m, nil

	case navChangedMsg:
		m.relayout()
		return m, waitForChange(m.nav)

	case usageMsg:
		if msg.err != nil {
			m.logger.Debug("volume usage unavailable", "path", m.path, "error", msg.err)
			return m, nil
		}
		m.usage = msg.usage
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Input ───────────────────────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.nav.Snapshot()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.nav.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if snap.State == StateScanning {
			m.nav.Cancel()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Rescan):
		m.nav.StartScan(m.path)
		return m, tea.Batch(m.spinner.Tick, readUsage(m.path))

	case key.Matches(msg, m.keys.Clear):
		m.nav.Clear()
		m.relayout()
		return m, nil
	}

	if snap.Tree == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		if len(m.rects) > 0 {
			m.selected = (m.selected + 1) % len(m.rects)
		}
	case key.Matches(msg, m.keys.Prev):
		if len(m.rects) > 0 {
			m.selected = (m.selected - 1 + len(m.rects)) % len(m.rects)
		}
	case key.Matches(msg, m.keys.Into):
		if m.selected < len(m.rects) {
			m.zoomInto(m.rects[m.selected].Node)
		}
	case key.Matches(msg, m.keys.Up):
		if m.nav.NavigateUp() {
			m.relayout()
		}
	case key.Matches(msg, m.keys.Reset):
		m.nav.Reset()
		m.relayout()
	case key.Matches(msg, m.keys.Crumb):
		i := int(msg.Runes[0] - '1')
		if i < len(snap.Breadcrumbs) && m.nav.NavigateToBreadcrumb(snap.Breadcrumbs[i]) {
			m.relayout()
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	x := float64(msg.X) + 0.5
	y := float64(msg.Y-headerHeight) + 0.5
	id := HitTest(m.rects, x, y)

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.selectNode(id)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id != NoNode {
			m.selectNode(id)
			m.zoomInto(id)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		if m.nav.NavigateUp() {
			m.relayout()
		}
	}
	return m
}

func (m *Model) zoomInto(id NodeID) {
	if m.nav.NavigateInto(id) {
		m.logger.Debug("zoom", "node", id)
		m.relayout()
	}
}

func (m *Model) selectNode(id NodeID) {
	for i, r := range m.rects {
		if r.Node == id {
			m.selected = i
			return
		}
	}
}

// ─── Layout ──────────────────────────────────────────────────────────────────

// mapSize is the treemap area in cells.
func (m Model) mapSize() (w, h int) {
	return max(0, m.width), max(0, m.height-headerHeight-footerHeight)
}

// relayout recomputes the treemap for the current node and keeps the
// selection in range. The selection resets when the current node changes.
func (m *Model) relayout() {
	snap := m.nav.Snapshot()
	if snap.Current != m.shown {
		m.selected = 0
		m.shown = snap.Current
	}
	w, h := m.mapSize()
	m.rects = m.nav.Layout(Rect{W: float64(w), H: float64(h)}, m.inset)
	if m.selected >= len(m.rects) {
		m.selected = max(0, len(m.rects)-1)
	}
}

// selectedNode returns the highlighted node or NoNode.
func (m Model) selectedNode() NodeID {
	if m.selected < 0 || m.selected >= len(m.rects) {
		return NoNode
	}
	return m.rects[m.selected].Node
}

// hintLine renders the key help for state.
func (m Model) hintLine(state State) string {
	var parts []string
	for _, b := range m.keys.hints(state) {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return ui.HintBarStyle().Render("  " + joinPipe(parts))
}
