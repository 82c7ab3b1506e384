package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/ink/internal/theme"
)

// Tab represents a single browser tab.
type Tab struct {
	ID    int
	Title string
	URL   string
}

// TabBar manages and renders browser tabs.
type TabBar struct {
	tabs       []Tab
	active     int
	nextID     int
	width      int
	maxVisible int
}

// NewTabBar creates a tab bar with one initial tab.
func NewTabBar() TabBar {
	tb := TabBar{
		nextID:     1,
		maxVisible: 8,
	}
	tb.tabs = append(tb.tabs, Tab{
		ID:    tb.nextID,
		Title: "New Tab",
	})
	return tb
}

// SetWidth sets the tab bar width.
func (tb *TabBar) SetWidth(w int) {
	tb.width = w
	tb.maxVisible = min(max(w/20, 2), 10)
}

// NewTab adds a tab after the active one, switches to it and returns its id.
func (tb *TabBar) NewTab() int {
	tb.nextID++
	tb.insert(Tab{ID: tb.nextID, Title: "New Tab"})
	return tb.nextID
}

// Restore replaces all tabs, e.g. with a saved window state, and focuses
// the tab with activeID (or the first tab if there is none).
func (tb *TabBar) Restore(tabs []Tab, activeID int) {
	if len(tabs) == 0 {
		return
	}
	tb.tabs = append([]Tab(nil), tabs...)
	tb.active = 0
	for i, t := range tb.tabs {
		if t.ID > tb.nextID {
			tb.nextID = t.ID
		}
		if t.ID == activeID {
			tb.active = i
		}
	}
}

func (tb *TabBar) insert(tab Tab) {
	at := min(tb.active+1, len(tb.tabs))
	tb.tabs = append(tb.tabs[:at], append([]Tab{tab}, tb.tabs[at:]...)...)
	tb.active = at
}

// CloseTab closes the tab at the given index. Closing the active tab focuses
// its left neighbour, or the right one when it was first. The last tab is
// never closed.
func (tb *TabBar) CloseTab(idx int) bool {
	if len(tb.tabs) <= 1 || idx < 0 || idx >= len(tb.tabs) {
		return false
	}
	tb.tabs = append(tb.tabs[:idx], tb.tabs[idx+1:]...)
	switch {
	case tb.active > idx:
		tb.active--
	case tb.active == idx && idx > 0:
		tb.active = idx - 1
	}
	if tb.active >= len(tb.tabs) {
		tb.active = len(tb.tabs) - 1
	}
	return true
}

// CloseCurrentTab closes the active tab.
func (tb *TabBar) CloseCurrentTab() bool {
	return tb.CloseTab(tb.active)
}

// NextTab switches to the next tab.
func (tb *TabBar) NextTab() {
	if len(tb.tabs) > 1 {
		tb.active = (tb.active + 1) % len(tb.tabs)
	}
}

// PrevTab switches to the previous tab.
func (tb *TabBar) PrevTab() {
	if len(tb.tabs) > 1 {
		tb.active = (tb.active - 1 + len(tb.tabs)) % len(tb.tabs)
	}
}

// Select focuses the n-th tab (1-based). It reports whether such a tab exists.
func (tb *TabBar) Select(n int) bool {
	if n < 1 || n > len(tb.tabs) {
		return false
	}
	tb.active = n - 1
	return true
}

// Active returns the active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// ActiveTab returns the active Tab.
func (tb *TabBar) ActiveTab() *Tab {
	if tb.active >= 0 && tb.active < len(tb.tabs) {
		return &tb.tabs[tb.active]
	}
	return nil
}

// Tabs returns a copy of all tabs in display order.
func (tb *TabBar) Tabs() []Tab {
	return append([]Tab(nil), tb.tabs...)
}

// SetActiveTitle sets the title of the active tab.
func (tb *TabBar) SetActiveTitle(title string) {
	if tab := tb.ActiveTab(); tab != nil {
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		tab.Title = title
	}
}

// SetActiveURL sets the URL of the active tab.
func (tb *TabBar) SetActiveURL(url string) {
	if tab := tb.ActiveTab(); tab != nil {
		tab.URL = url
	}
}

// Count returns the number of tabs.
func (tb *TabBar) Count() int {
	return len(tb.tabs)
}

// View renders the tab bar.
func (tb *TabBar) View() string {
	t := theme.Current

	activeStyle := lipgloss.NewStyle().
		Foreground(t.TextBright).
		Background(t.TabActive).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.TabInactive).
		Padding(0, 1)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	overflowStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	// Keep the active tab centred in the visible window.
	start, end := 0, len(tb.tabs)
	if end > tb.maxVisible {
		start = max(tb.active-tb.maxVisible/2, 0)
		end = start + tb.maxVisible
		if end > len(tb.tabs) {
			end = len(tb.tabs)
			start = max(end-tb.maxVisible, 0)
		}
	}

	var result string
	if start > 0 {
		result += overflowStyle.Render(fmt.Sprintf(" +%d ", start))
	}

	maxTitleLen := 8
	if tb.maxVisible > 0 {
		maxTitleLen = max(tb.width/tb.maxVisible-6, 8)
	}

	for i := start; i < end; i++ {
		title := tb.tabs[i].Title
		if title == "" {
			title = "New Tab"
		}
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen-3] + "..."
		}

		label := fmt.Sprintf(" %d:%s ", i+1, title)
		if i == tb.active {
			result += activeStyle.Render(label)
		} else {
			result += inactiveStyle.Render(label)
		}

		if i < end-1 {
			result += separatorStyle.Render("|")
		}
	}

	if end < len(tb.tabs) {
		result += overflowStyle.Render(fmt.Sprintf(" +%d ", len(tb.tabs)-end))
	}

	barStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(tb.width)

	return barStyle.Render(result)
}
