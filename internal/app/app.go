package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/vidyasagar/ink/internal/navigation"
	"github.com/vidyasagar/ink/internal/storage"
	"github.com/vidyasagar/ink/internal/theme"
	"github.com/vidyasagar/ink/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeInsert       // URL bar focused
	ModeCommand      // command bar active
	ModeHistory      // history panel active
	ModeLeader       // leader key palette active
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	case ModeHistory:
		return "HISTORY"
	case ModeLeader:
		return "LEADER"
	default:
		return "NORMAL"
	}
}

// closedTabsCapacity is how many closed tabs T can bring back.
const closedTabsCapacity = 10

// tabState holds per-tab view state. Navigation history lives in the controller.
type tabState struct {
	view ui.TabView
}

// Options configures a Model. Nil stores disable the matching feature.
type Options struct {
	StartURL string
	Config   *storage.Config
	History  *storage.HistoryStore
	Tabs     *storage.TabStore
	Logger   *zap.Logger
}

// Model is the top-level bubbletea model for ink.
type Model struct {
	// UI components
	tabBar       ui.TabBar
	urlBar       ui.URLBar
	statusBar    ui.StatusBar
	commandBar   ui.CommandBar
	historyPanel ui.HistoryPanel
	leaderPanel  ui.LeaderPanel

	// Per-tab state
	tabStates map[int]*tabState
	nav       *navigation.Controller

	// Recently closed tabs, keyed by close order.
	closed    *lru.Cache[int, storage.TabState]
	closedSeq int

	// Storage
	historyStore *storage.HistoryStore
	tabStore     *storage.TabStore
	config       *storage.Config

	log      *zap.Logger
	keys     KeyMap
	mode     Mode
	width    int
	height   int
	lastGKey bool // for "gg" and "gt" detection
	ready    bool
}

// leaderTimeoutMsg is sent when the leader key palette times out.
type leaderTimeoutMsg struct{}

// New creates a Model. Saved tabs are restored when the config asks for it;
// otherwise the window starts with one new tab, showing StartURL or the
// configured homepage if set.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		def := storage.DefaultConfig()
		cfg = &def
	}
	closed, _ := lru.New[int, storage.TabState](closedTabsCapacity)

	m := Model{
		tabBar:       ui.NewTabBar(),
		urlBar:       ui.NewURLBar(),
		statusBar:    ui.NewStatusBar(),
		commandBar:   ui.NewCommandBar(commandNames...),
		historyPanel: ui.NewHistoryPanel(),
		leaderPanel:  ui.NewLeaderPanel(),
		tabStates:    make(map[int]*tabState),
		nav:          navigation.NewController(log),
		closed:       closed,
		historyStore: opts.History,
		tabStore:     opts.Tabs,
		config:       cfg,
		log:          log.Named("app"),
		keys:         DefaultKeyMap(),
		mode:         ModeNormal,
	}

	restored := m.restoreSession()
	if !restored {
		tab := m.tabBar.ActiveTab()
		m.nav.InitializeTab(tab.ID, "")
		m.tabStates[tab.ID] = &tabState{view: ui.NewTabView()}
	}

	start := opts.StartURL
	if start == "" && !restored {
		start = cfg.Homepage
	}
	if start != "" {
		m.navigate(start)
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case leaderTimeoutMsg:
		if m.mode == ModeLeader {
			m.leaderPanel.Hide()
			m.setMode(ModeNormal)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Forward the rest (mouse wheel) to the active view.
	if ts := m.activeTabState(); ts != nil {
		_, cmd := ts.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading ink..."
	}

	// Layout:
	// [tab bar]
	// [url bar]
	// [history panel | tab view]
	// [status bar]
	// [command bar] (if active)
	sections := []string{m.tabBar.View(), m.urlBar.View()}

	content := ""
	if ts := m.activeTabState(); ts != nil {
		content = ts.view.View()
	}
	if m.historyPanel.IsVisible() {
		divider := lipgloss.NewStyle().
			Foreground(theme.Current.Border).
			Render(strings.TrimSuffix(strings.Repeat("│\n", m.contentHeight()), "\n"))
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.historyPanel.View(), divider, content)
	}
	sections = append(sections, content, m.statusBar.View())

	if m.commandBar.IsActive() {
		sections = append(sections, m.commandBar.View())
	}

	result := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.leaderPanel.IsVisible() {
		result = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.leaderPanel.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(theme.Current.Background),
		)
	}

	return result
}

// contentHeight is the height left for the tab view.
func (m *Model) contentHeight() int {
	const chrome = 1 + 3 + 1 // tab bar, bordered URL bar, status bar
	h := m.height - chrome
	if m.commandBar.IsActive() {
		h--
	}
	return max(h, 1)
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.tabBar.SetWidth(m.width)
	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.commandBar.SetWidth(m.width)
	m.leaderPanel.SetSize(m.width, m.height)

	height := m.contentHeight()
	width := m.width
	if m.historyPanel.IsVisible() {
		panelWidth := max(m.width*30/100, 20)
		m.historyPanel.SetSize(panelWidth, height)
		width = m.width - panelWidth - 1
	}

	for _, ts := range m.tabStates {
		ts.view.SetSize(width, height)
	}
}

func (m *Model) setMode(mode Mode) {
	m.mode = mode
	m.statusBar.SetMode(mode.String())
}

// activeTabState returns the state for the currently active tab.
func (m *Model) activeTabState() *tabState {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return nil
	}
	return m.tabStates[tab.ID]
}

// sync redraws everything that mirrors the active tab's navigation state.
func (m *Model) sync() {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return
	}
	state := m.nav.State(tab.ID)
	m.urlBar.SetURL(state.URL)
	m.urlBar.SetNavigation(state.CanGoBack, state.CanGoForward)

	snap, _ := m.nav.History(tab.ID)
	if ts, ok := m.tabStates[tab.ID]; ok {
		ts.view.SetSnapshot(snap)
	}
	m.statusBar.SetTitle(tab.Title)
	m.statusBar.SetPosition(snap.Current, snap.Max, snap.Size)
	m.statusBar.SetTabCount(m.tabBar.Count())
}

// quit saves the window state and ends the program.
func (m *Model) quit() tea.Cmd {
	m.saveSession()
	return tea.Quit
}

func leaderTimeout() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return leaderTimeoutMsg{}
	})
}
