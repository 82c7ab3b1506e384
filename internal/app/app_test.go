package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vidyasagar/ink/internal/navigation"
	"github.com/vidyasagar/ink/internal/storage"
)

var specialKeys = map[string]tea.KeyType{
	"ctrl+t":    tea.KeyCtrlT,
	"ctrl+w":    tea.KeyCtrlW,
	"ctrl+h":    tea.KeyCtrlH,
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"space":     tea.KeySpace,
}

func keyMsg(k string) tea.KeyMsg {
	if typ, ok := specialKeys[k]; ok {
		return tea.KeyMsg{Type: typ}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func command(t *testing.T, m Model, line string) Model {
	t.Helper()
	m = press(t, m, ":")
	m = typeText(t, m, line)
	return press(t, m, "enter")
}

type testStores struct {
	history *storage.HistoryStore
	tabs    *storage.TabStore
}

func newTestStores(t *testing.T) testStores {
	t.Helper()
	db, err := storage.OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return testStores{
		history: storage.NewHistoryStore(db),
		tabs:    storage.NewTabStore(db),
	}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	dir := t.TempDir()
	orig := storage.ConfigDir
	storage.ConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { storage.ConfigDir = orig })

	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	m := New(opts)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func currentURL(t *testing.T, m Model) string {
	t.Helper()
	url, ok := m.nav.CurrentURL(m.tabBar.ActiveTab().ID)
	require.True(t, ok)
	return url
}

func TestNewStartsOnNewTabPage(t *testing.T) {
	m := newTestModel(t, Options{})

	assert.Equal(t, 1, m.tabBar.Count())
	assert.Equal(t, navigation.NewTabURL, currentURL(t, m))
	assert.Equal(t, "", m.urlBar.Value())
	assert.Equal(t, ModeNormal, m.mode)
	assert.Contains(t, m.View(), "New Tab")
}

func TestNewWithStartURL(t *testing.T) {
	m := newTestModel(t, Options{StartURL: "example.com"})

	assert.Equal(t, "https://example.com", currentURL(t, m))
	assert.Equal(t, "example.com", m.tabBar.ActiveTab().Title)
	assert.True(t, m.nav.CanGoBack(m.tabBar.ActiveTab().ID))
}

func TestOpenThroughURLBar(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "o")
	assert.Equal(t, ModeInsert, m.mode)
	m = typeText(t, m, "example.com")
	m = press(t, m, "enter")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "https://example.com", currentURL(t, m))
	assert.Equal(t, "https://example.com", m.urlBar.Value())
}

func TestEscapeLeavesURLBarWithoutNavigating(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "o")
	m = typeText(t, m, "example.com")
	m = press(t, m, "esc")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, navigation.NewTabURL, currentURL(t, m))
	assert.Equal(t, 1, m.nav.Len(1))
}

func TestBackAndForwardKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")

	m = press(t, m, "H")
	assert.Equal(t, "https://a.com/", currentURL(t, m))
	assert.True(t, m.nav.CanGoForward(1))

	m = press(t, m, "L")
	assert.Equal(t, "https://b.com/", currentURL(t, m))

	m = press(t, m, "L")
	assert.Equal(t, "https://b.com/", currentURL(t, m))
	assert.Equal(t, "Already at the newest entry", m.statusBar.Message())
}

func TestNavigateAfterBackDropsForwardEntries(t *testing.T) {
	m := newTestModel(t, Options{})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")
	m = press(t, m, "H")
	m = command(t, m, "open https://c.com/")

	snap, ok := m.nav.History(1)
	require.True(t, ok)
	assert.Equal(t, []navigation.Entry{
		{URL: navigation.NewTabURL, Position: 0},
		{URL: "https://a.com/", Position: 1},
		{URL: "https://c.com/", Position: 2},
	}, snap.Entries)
	assert.False(t, m.nav.CanGoForward(1))
}

func TestSimilarNavigationUpdatesCurrentEntry(t *testing.T) {
	m := newTestModel(t, Options{})
	m = command(t, m, "open https://www.site.com/page")
	m = command(t, m, "open https://site.com/page?utm_source=feed")

	assert.Equal(t, 2, m.nav.Len(1))
	assert.Equal(t, "https://site.com/page?utm_source=feed", currentURL(t, m))
	assert.Equal(t, "Updated current entry", m.statusBar.Message())
}

func TestReplaceCommand(t *testing.T) {
	m := newTestModel(t, Options{})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "replace https://a.com/login")

	assert.Equal(t, 2, m.nav.Len(1))
	assert.Equal(t, "https://a.com/login", currentURL(t, m))
}

func TestClearCommandResetsTab(t *testing.T) {
	m := newTestModel(t, Options{})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "clear")

	assert.Equal(t, 1, m.nav.Len(1))
	assert.Equal(t, navigation.NewTabURL, currentURL(t, m))
	assert.Equal(t, "New Tab", m.tabBar.ActiveTab().Title)
}

func TestUnknownCommand(t *testing.T) {
	m := newTestModel(t, Options{})
	m = command(t, m, "frobnicate")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "Unknown command: frobnicate", m.statusBar.Message())
}

func TestNewTabAndSwitching(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, "ctrl+t")

	require.Equal(t, 2, m.tabBar.Count())
	assert.Equal(t, 2, m.tabBar.ActiveTab().ID)
	assert.Equal(t, navigation.NewTabURL, currentURL(t, m))

	m = command(t, m, "open https://two.com/")
	m = press(t, m, "1")
	assert.Equal(t, 1, m.tabBar.ActiveTab().ID)
	assert.Equal(t, navigation.NewTabURL, currentURL(t, m))

	m = press(t, m, "tab")
	assert.Equal(t, "https://two.com/", currentURL(t, m))
	assert.Equal(t, "https://two.com/", m.urlBar.Value())

	m = press(t, m, "g", "t")
	assert.Equal(t, 1, m.tabBar.ActiveTab().ID)
}

func TestCloseTabFocusesLeftNeighbour(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, "ctrl+t", "ctrl+t")
	require.Equal(t, 3, m.tabBar.Count())

	m = press(t, m, "2", "ctrl+w")
	assert.Equal(t, 2, m.tabBar.Count())
	assert.Equal(t, 1, m.tabBar.ActiveTab().ID)
	_, ok := m.nav.History(2)
	assert.False(t, ok)

	// The first tab has no left neighbour.
	m = press(t, m, "1", "ctrl+w")
	assert.Equal(t, 1, m.tabBar.Count())
	assert.Equal(t, 3, m.tabBar.ActiveTab().ID)
}

func TestCloseLastTabQuits(t *testing.T) {
	m := newTestModel(t, Options{})

	_, cmd := update(t, m, keyMsg("ctrl+w"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReopenClosedTab(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, "ctrl+t")
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")
	m = press(t, m, "H", "ctrl+w")
	require.Equal(t, 1, m.tabBar.Count())

	m = press(t, m, "T")
	require.Equal(t, 2, m.tabBar.Count())
	id := m.tabBar.ActiveTab().ID
	assert.Equal(t, 3, id)
	assert.Equal(t, "https://a.com/", currentURL(t, m))
	assert.True(t, m.nav.CanGoForward(id))
	assert.Equal(t, "a.com", m.tabBar.ActiveTab().Title)

	m = press(t, m, "T")
	assert.Equal(t, "No recently closed tabs", m.statusBar.Message())
}

func TestVisitsAreRecordedInGlobalHistory(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = press(t, m, "ctrl+t")
	m = command(t, m, "open https://b.com/x")

	entries, err := stores.history.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://b.com/x", entries[0].URL)
	assert.Equal(t, "b.com", entries[0].Title)
	assert.Equal(t, "https://a.com/", entries[1].URL)
}

func TestHistoryPanelOpensEntry(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")

	m = press(t, m, "ctrl+h")
	require.Equal(t, ModeHistory, m.mode)
	assert.True(t, m.historyPanel.IsVisible())

	m = press(t, m, "j", "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.False(t, m.historyPanel.IsVisible())
	assert.Equal(t, "https://a.com/", currentURL(t, m))
	assert.Equal(t, 4, m.nav.Len(1))
}

func TestHistoryPanelOpensEntryInNewTab(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")

	m = press(t, m, "ctrl+h", "t")
	assert.Equal(t, 2, m.tabBar.Count())
	assert.Equal(t, "https://a.com/", currentURL(t, m))
}

func TestHistoryPanelDeletesEntry(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")

	m = press(t, m, "ctrl+h", "d")
	assert.Equal(t, "Removed https://b.com/", m.statusBar.Message())
	m = press(t, m, "esc")
	assert.Equal(t, ModeNormal, m.mode)

	entries, err := stores.history.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://a.com/", entries[0].URL)
}

func TestHistoryPanelFilter(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/x")
	m = command(t, m, "open https://c.com/")

	m = press(t, m, "ctrl+h", "/")
	require.True(t, m.historyPanel.Filtering())
	m = typeText(t, m, "b.com")
	m = press(t, m, "enter")
	assert.False(t, m.historyPanel.Filtering())
	assert.Equal(t, "b.com", m.historyPanel.Query())
	require.Equal(t, 1, m.historyPanel.Len())
	e, ok := m.historyPanel.Selected()
	require.True(t, ok)
	assert.Equal(t, "https://b.com/x", e.URL)

	// The first esc drops the filter, the second closes the panel.
	m = press(t, m, "esc")
	assert.Equal(t, ModeHistory, m.mode)
	assert.Equal(t, "", m.historyPanel.Query())
	assert.Equal(t, 3, m.historyPanel.Len())
	m = press(t, m, "esc")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestHistoryCommandWithQuery(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")

	m = command(t, m, "history nothing-like-this")
	require.Equal(t, ModeHistory, m.mode)
	assert.Equal(t, 0, m.historyPanel.Len())
	assert.Contains(t, m.historyPanel.View(), "No matches.")
}

func TestHistoryPanelSwitchesToOpenTab(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = press(t, m, "ctrl+t")
	m = command(t, m, "open https://b.com/")
	before := m.nav.Len(2)

	m = press(t, m, "ctrl+h")
	n, ok := m.historyPanel.OpenTab("https://a.com/")
	require.True(t, ok)
	assert.Equal(t, 1, n)
	n, ok = m.historyPanel.OpenTab("https://b.com/")
	require.True(t, ok)
	assert.Equal(t, 2, n)

	m = press(t, m, "j", "enter")
	assert.Equal(t, 1, m.tabBar.ActiveTab().ID)
	assert.Equal(t, "https://a.com/", currentURL(t, m))
	assert.Equal(t, "Switched to tab 1", m.statusBar.Message())
	assert.Equal(t, before, m.nav.Len(2))
	assert.Equal(t, 2, m.nav.Len(1))
}

func TestHistoryPanelDeleteReportsMissingEntry(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")

	m = press(t, m, "ctrl+h")
	require.Equal(t, 1, m.historyPanel.Len())
	require.NoError(t, stores.history.Clear())

	m = press(t, m, "d")
	assert.Equal(t, "Entry was already removed", m.statusBar.Message())
	assert.Equal(t, 0, m.historyPanel.Len())
}

func TestClearHistoryCommand(t *testing.T) {
	stores := newTestStores(t)
	m := newTestModel(t, Options{History: stores.history})
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "clearhistory")

	n, err := stores.history.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "History cleared", m.statusBar.Message())
	// Tab history is untouched.
	assert.Equal(t, 2, m.nav.Len(1))
}

func TestSessionRestoredWhenPersisting(t *testing.T) {
	stores := newTestStores(t)
	cfg := storage.DefaultConfig()
	cfg.PersistAllTabs = true
	opts := Options{History: stores.history, Tabs: stores.tabs, Config: &cfg}

	m := newTestModel(t, opts)
	m = command(t, m, "open https://a.com/")
	m = command(t, m, "open https://b.com/")
	m = press(t, m, "H", "ctrl+t")
	m = command(t, m, "open https://c.com/")
	m = press(t, m, "1")
	_, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)

	restored := newTestModel(t, opts)
	require.Equal(t, 2, restored.tabBar.Count())
	assert.Equal(t, 1, restored.tabBar.ActiveTab().ID)
	assert.Equal(t, "https://a.com/", currentURL(t, restored))
	assert.True(t, restored.nav.CanGoForward(1))

	url, ok := restored.nav.CurrentURL(2)
	require.True(t, ok)
	assert.Equal(t, "https://c.com/", url)

	// New tabs do not reuse restored ids.
	restored = press(t, restored, "ctrl+t")
	assert.Equal(t, 3, restored.tabBar.ActiveTab().ID)
}

func TestSavedTabsClearedWhenNotPersisting(t *testing.T) {
	stores := newTestStores(t)
	require.NoError(t, stores.tabs.Save(storage.WindowState{
		Active: 1,
		Tabs: []storage.TabState{{
			ID:       1,
			Snapshot: navigation.Snapshot{Entries: []navigation.Entry{{URL: "https://a.com/"}}},
		}},
	}))

	m := newTestModel(t, Options{Tabs: stores.tabs})
	assert.Equal(t, navigation.NewTabURL, currentURL(t, m))
	press(t, m, "q")

	_, ok, err := stores.tabs.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistCommand(t *testing.T) {
	cfg := storage.DefaultConfig()
	m := newTestModel(t, Options{Config: &cfg})

	m = command(t, m, "persist on")
	assert.True(t, cfg.PersistAllTabs)
	assert.Equal(t, "Persist all tabs: on", m.statusBar.Message())

	loaded, err := storage.LoadConfig()
	require.NoError(t, err)
	assert.True(t, loaded.PersistAllTabs)

	m = command(t, m, "persist maybe")
	assert.Equal(t, "Usage: :persist on|off", m.statusBar.Message())
}

func TestLeaderPalette(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "space")
	require.Equal(t, ModeLeader, m.mode)
	assert.True(t, m.leaderPanel.IsVisible())

	m = press(t, m, "t")
	assert.Equal(t, ModeNormal, m.mode)
	assert.False(t, m.leaderPanel.IsVisible())
	assert.Equal(t, 2, m.tabBar.Count())

	m, _ = update(t, press(t, m, "space"), leaderTimeoutMsg{})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestHelpPage(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "?")
	assert.True(t, m.activeTabState().view.ShowingPage())

	m = press(t, m, "esc")
	assert.False(t, m.activeTabState().view.ShowingPage())
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  example.com  ", "https://example.com"},
		{"http://example.com/a", "http://example.com/a"},
		{"https://example.com", "https://example.com"},
		{"golang generics", "https://html.duckduckgo.com/html/?q=golang+generics"},
		{navigation.NewTabURL, navigation.NewTabURL},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeURL(tt.in))
		})
	}
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "New Tab", titleFor(navigation.NewTabURL))
	assert.Equal(t, "example.com", titleFor("https://www.example.com/a"))
	assert.Equal(t, "Search: go", titleFor("https://html.duckduckgo.com/html/?q=go"))
	assert.Equal(t, "not a url", titleFor("not a url"))
}
