package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vidyasagar/ink/internal/navigation"
)

func (m *Model) toggleHistoryPanel() {
	if m.historyPanel.IsVisible() {
		m.hideHistoryPanel()
		return
	}
	m.showHistoryPanel("")
}

// showHistoryPanel opens the global history, narrowed to query when it is set.
func (m *Model) showHistoryPanel(query string) {
	if m.historyStore == nil {
		m.statusBar.SetError("History not available")
		return
	}
	if !m.loadHistory(query) {
		return
	}
	m.historyPanel.Show()
	m.setMode(ModeHistory)
	m.layout()
}

func (m *Model) hideHistoryPanel() {
	m.historyPanel.Hide()
	m.setMode(ModeNormal)
	m.layout()
}

// loadHistory fills the panel from the store and marks URLs open in a tab.
func (m *Model) loadHistory(query string) bool {
	entries, err := m.historyStore.List(0)
	if query != "" {
		entries, err = m.historyStore.Search(query)
	}
	if err != nil {
		m.log.Warn("loading history", zap.String("query", query), zap.Error(err))
		m.statusBar.SetError("Could not load history")
		return false
	}
	m.historyPanel.SetEntries(entries, query)
	m.historyPanel.SetOpenTabs(m.openTabURLs())
	return true
}

// openTabURLs maps the current URL of every tab to its 1-based position. A
// URL open in several tabs maps to the leftmost one.
func (m *Model) openTabURLs() map[string]int {
	open := make(map[string]int)
	for i, t := range m.tabBar.Tabs() {
		url, ok := m.nav.CurrentURL(t.ID)
		if !ok || url == navigation.NewTabURL {
			continue
		}
		if _, seen := open[url]; !seen {
			open[url] = i + 1
		}
	}
	return open
}

// handleHistoryMode processes keys when the history panel is active.
func (m Model) handleHistoryMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.historyPanel.Filtering() {
		switch msg.Type {
		case tea.KeyEnter:
			m.loadHistory(m.historyPanel.EndFilter())
			m.layout()
			return m, nil
		case tea.KeyEsc:
			m.historyPanel.CancelFilter()
			m.layout()
			return m, nil
		}
		return m, m.historyPanel.UpdateFilter(msg)
	}

	pendingG := m.lastGKey
	m.lastGKey = false
	half := max(m.historyPanel.PageSize()/2, 1)

	switch msg.String() {
	case "j", "down":
		m.historyPanel.Move(1)
	case "k", "up":
		m.historyPanel.Move(-1)
	case "ctrl+d":
		m.historyPanel.Move(half)
	case "ctrl+u":
		m.historyPanel.Move(-half)
	case "g":
		if pendingG {
			m.historyPanel.Top()
		} else {
			m.lastGKey = true
		}
	case "G":
		m.historyPanel.Bottom()

	case "/":
		cmd := m.historyPanel.StartFilter()
		m.layout()
		return m, cmd

	case "d":
		m.removeHistoryEntry()
	case "enter":
		m.openHistoryEntry(false)
	case "t":
		m.openHistoryEntry(true)

	case "esc":
		if m.historyPanel.Query() != "" {
			m.loadHistory("")
			break
		}
		m.hideHistoryPanel()
	case "ctrl+h", "q":
		m.hideHistoryPanel()
	}

	return m, nil
}

func (m *Model) removeHistoryEntry() {
	entry, ok := m.historyPanel.Selected()
	if !ok {
		return
	}
	found, err := m.historyStore.Remove(entry.ID)
	if err != nil {
		m.log.Warn("removing history entry", zap.Int64("id", entry.ID), zap.Error(err))
		m.statusBar.SetError("Could not remove entry")
		return
	}
	m.historyPanel.Remove(entry.ID)
	if !found {
		// Cleared from another process or the CLI while the panel was open.
		m.statusBar.SetMessage("Entry was already removed")
		return
	}
	m.statusBar.SetMessage("Removed " + entry.URL)
}

// openHistoryEntry visits the selected entry. A page already showing in a tab
// focuses that tab instead of adding to the active tab's history.
func (m *Model) openHistoryEntry(inNewTab bool) {
	entry, ok := m.historyPanel.Selected()
	if !ok {
		return
	}
	m.hideHistoryPanel()
	if inNewTab {
		m.newTab(entry.URL)
		return
	}
	if n, open := m.historyPanel.OpenTab(entry.URL); open && m.tabBar.Select(n) {
		m.sync()
		m.statusBar.SetMessage(fmt.Sprintf("Switched to tab %d", n))
		return
	}
	m.navigate(entry.URL)
}
