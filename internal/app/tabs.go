package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vidyasagar/ink/internal/navigation"
	"github.com/vidyasagar/ink/internal/storage"
	"github.com/vidyasagar/ink/internal/ui"
)

// navigate commits a navigation to raw in the active tab and records the
// visit in global history.
func (m *Model) navigate(raw string) {
	target := normalizeURL(raw)
	tab := m.tabBar.ActiveTab()
	if target == "" || tab == nil {
		return
	}

	action := m.nav.AddEntry(tab.ID, target)
	if action == navigation.ActionReplaced {
		m.statusBar.SetMessage("Updated current entry")
	} else {
		m.statusBar.ClearMessage()
	}
	m.showURL(target)
	m.recordVisit(target)
	m.sync()
}

// replaceCurrent rewrites the active tab's current entry, as a redirect would.
func (m *Model) replaceCurrent(raw string) {
	target := normalizeURL(raw)
	tab := m.tabBar.ActiveTab()
	if target == "" || tab == nil {
		return
	}
	m.nav.ReplaceCurrentEntry(tab.ID, target)
	m.showURL(target)
	m.recordVisit(target)
	m.sync()
}

func (m *Model) goBack() {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return
	}
	url, ok := m.nav.GoBack(tab.ID)
	if !ok {
		m.statusBar.SetMessage("Already at the oldest entry")
		return
	}
	m.statusBar.ClearMessage()
	m.showURL(url)
	m.sync()
}

func (m *Model) goForward() {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return
	}
	url, ok := m.nav.GoForward(tab.ID)
	if !ok {
		m.statusBar.SetMessage("Already at the newest entry")
		return
	}
	m.statusBar.ClearMessage()
	m.showURL(url)
	m.sync()
}

// clearTab drops the active tab's history and leaves it on the new-tab page.
func (m *Model) clearTab() {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return
	}
	m.nav.InitializeTab(tab.ID, "")
	m.showURL(navigation.NewTabURL)
	m.sync()
	m.statusBar.SetMessage("Tab history cleared")
}

// showURL puts url into the active tab's bar entry.
func (m *Model) showURL(url string) {
	m.tabBar.SetActiveURL(url)
	m.tabBar.SetActiveTitle(titleFor(url))
}

// recordVisit adds url to the global history. The new-tab page is never recorded.
func (m *Model) recordVisit(url string) {
	if m.historyStore == nil || url == navigation.NewTabURL {
		return
	}
	if err := m.historyStore.Add(url, titleFor(url)); err != nil {
		m.log.Warn("recording visit", zap.String("url", url), zap.Error(err))
	}
}

// newTab opens a tab after the active one and focuses it. A non-empty url
// is navigated to straight away.
func (m *Model) newTab(url string) {
	id := m.tabBar.NewTab()
	m.nav.InitializeTab(id, "")
	m.tabStates[id] = &tabState{view: ui.NewTabView()}
	m.layout()
	if url != "" {
		m.navigate(url)
	}
	m.sync()
}

// closeTab closes the active tab and keeps its history for reopenTab. It
// reports false when the tab is the last one.
func (m *Model) closeTab() bool {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return false
	}
	id, title := tab.ID, tab.Title
	if !m.tabBar.CloseCurrentTab() {
		return false
	}

	if snap, ok := m.nav.History(id); ok {
		m.closedSeq++
		m.closed.Add(m.closedSeq, storage.TabState{ID: id, Title: title, Snapshot: snap})
	}
	m.nav.RemoveTab(id)
	delete(m.tabStates, id)
	m.sync()
	return true
}

// reopenTab brings back the most recently closed tab with its history.
func (m *Model) reopenTab() {
	keys := m.closed.Keys()
	if len(keys) == 0 {
		m.statusBar.SetMessage("No recently closed tabs")
		return
	}
	seq := keys[len(keys)-1]
	st, _ := m.closed.Peek(seq)
	m.closed.Remove(seq)

	id := m.tabBar.NewTab()
	if err := m.nav.Restore(id, st.Snapshot); err != nil {
		m.log.Warn("reopening tab", zap.Int("tab", st.ID), zap.Error(err))
		m.nav.InitializeTab(id, "")
	}
	m.tabStates[id] = &tabState{view: ui.NewTabView()}

	url, _ := m.nav.CurrentURL(id)
	m.tabBar.SetActiveURL(url)
	m.tabBar.SetActiveTitle(st.Title)
	m.layout()
	m.sync()
	m.statusBar.SetMessage(fmt.Sprintf("Reopened: %s", st.Title))
}

// saveSession persists the open tabs when persist_all_tabs is on, and
// forgets any saved tabs when it is off.
func (m *Model) saveSession() {
	if m.tabStore == nil {
		return
	}
	if !m.config.PersistAllTabs {
		if err := m.tabStore.Clear(); err != nil {
			m.log.Warn("clearing saved tabs", zap.Error(err))
		}
		return
	}

	var ws storage.WindowState
	if tab := m.tabBar.ActiveTab(); tab != nil {
		ws.Active = tab.ID
	}
	for _, t := range m.tabBar.Tabs() {
		snap, ok := m.nav.History(t.ID)
		if !ok {
			continue
		}
		ws.Tabs = append(ws.Tabs, storage.TabState{ID: t.ID, Title: t.Title, Snapshot: snap})
	}

	if err := m.tabStore.Save(ws); err != nil {
		m.log.Warn("saving tabs", zap.Error(err))
		return
	}
	m.log.Info("tabs saved", zap.Int("count", len(ws.Tabs)))
}

// restoreSession loads saved tabs into the controller and tab bar. Tabs whose
// history does not validate are skipped.
func (m *Model) restoreSession() bool {
	if m.tabStore == nil || !m.config.PersistAllTabs {
		return false
	}
	ws, ok, err := m.tabStore.Load()
	if err != nil {
		m.log.Warn("loading saved tabs", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	var tabs []ui.Tab
	for _, st := range ws.Tabs {
		if err := m.nav.Restore(st.ID, st.Snapshot); err != nil {
			m.log.Warn("skipping saved tab", zap.Int("tab", st.ID), zap.Error(err))
			continue
		}
		url, _ := m.nav.CurrentURL(st.ID)
		tabs = append(tabs, ui.Tab{ID: st.ID, Title: st.Title, URL: url})
		m.tabStates[st.ID] = &tabState{view: ui.NewTabView()}
	}
	if len(tabs) == 0 {
		return false
	}

	m.tabBar.Restore(tabs, ws.Active)
	m.log.Info("tabs restored", zap.Int("count", len(tabs)))
	return true
}
