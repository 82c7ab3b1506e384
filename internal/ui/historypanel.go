package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/ink/internal/storage"
	"github.com/vidyasagar/ink/internal/theme"
)

// HistoryPanel is a sidebar over the global history. Rows whose URL is the
// current page of an open tab carry that tab's number, and a / filter narrows
// the list to a store search.
type HistoryPanel struct {
	entries []storage.HistoryEntry
	openIn  map[string]int
	filter  textinput.Model
	query   string

	cursor  int
	offset  int
	width   int
	height  int
	visible bool
}

func NewHistoryPanel() HistoryPanel {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter title or url"
	fi.CharLimit = 128
	return HistoryPanel{filter: fi}
}

// SetEntries replaces the list with the result of query ("" for everything)
// and puts the cursor back on the newest row.
func (hp *HistoryPanel) SetEntries(entries []storage.HistoryEntry, query string) {
	hp.entries = entries
	hp.query = query
	hp.cursor, hp.offset = 0, 0
}

// Query is the filter the current entries were loaded with.
func (hp *HistoryPanel) Query() string { return hp.query }

// Len is the number of listed entries.
func (hp *HistoryPanel) Len() int { return len(hp.entries) }

// SetOpenTabs records which URLs are showing in a tab, keyed to the tab's
// 1-based position in the tab bar.
func (hp *HistoryPanel) SetOpenTabs(openIn map[string]int) {
	hp.openIn = openIn
}

// OpenTab returns the tab number showing url.
func (hp *HistoryPanel) OpenTab(url string) (int, bool) {
	n, ok := hp.openIn[url]
	return n, ok
}

func (hp *HistoryPanel) SetSize(w, h int) {
	hp.width = w
	hp.height = h
	hp.filter.Width = w - 4
	hp.clamp()
}

func (hp *HistoryPanel) Show() {
	hp.visible = true
}

func (hp *HistoryPanel) Hide() {
	hp.visible = false
	hp.CancelFilter()
}

func (hp *HistoryPanel) IsVisible() bool { return hp.visible }

// Move shifts the cursor by delta rows, stopping at either end.
func (hp *HistoryPanel) Move(delta int) {
	hp.cursor += delta
	hp.clamp()
}

func (hp *HistoryPanel) Top() {
	hp.cursor = 0
	hp.clamp()
}

func (hp *HistoryPanel) Bottom() {
	hp.cursor = len(hp.entries) - 1
	hp.clamp()
}

// PageSize is the number of rows that fit between the header and the footer.
func (hp *HistoryPanel) PageSize() int {
	rows := hp.height - 3
	if hp.Filtering() {
		rows--
	}
	return max(rows, 1)
}

// Selected returns the entry under the cursor.
func (hp *HistoryPanel) Selected() (storage.HistoryEntry, bool) {
	if hp.cursor < 0 || hp.cursor >= len(hp.entries) {
		return storage.HistoryEntry{}, false
	}
	return hp.entries[hp.cursor], true
}

// Remove drops the entry with id from the list. It reports whether the entry
// was listed.
func (hp *HistoryPanel) Remove(id int64) bool {
	for i, e := range hp.entries {
		if e.ID != id {
			continue
		}
		hp.entries = append(hp.entries[:i], hp.entries[i+1:]...)
		hp.clamp()
		return true
	}
	return false
}

// StartFilter focuses the filter line, seeded with the active query.
func (hp *HistoryPanel) StartFilter() tea.Cmd {
	hp.filter.SetValue(hp.query)
	hp.filter.CursorEnd()
	hp.clamp()
	return hp.filter.Focus()
}

func (hp *HistoryPanel) Filtering() bool { return hp.filter.Focused() }

// EndFilter leaves the filter line and returns the trimmed text typed into it.
func (hp *HistoryPanel) EndFilter() string {
	q := strings.TrimSpace(hp.filter.Value())
	hp.filter.Blur()
	hp.filter.Reset()
	return q
}

// CancelFilter leaves the filter line without changing the query.
func (hp *HistoryPanel) CancelFilter() {
	hp.filter.Blur()
	hp.filter.Reset()
}

func (hp *HistoryPanel) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	hp.filter, cmd = hp.filter.Update(msg)
	return cmd
}

// clamp keeps the cursor on a row and the row inside the window.
func (hp *HistoryPanel) clamp() {
	hp.cursor = min(hp.cursor, len(hp.entries)-1)
	hp.cursor = max(hp.cursor, 0)
	page := hp.PageSize()
	if hp.cursor < hp.offset {
		hp.offset = hp.cursor
	}
	if hp.cursor >= hp.offset+page {
		hp.offset = hp.cursor - page + 1
	}
	hp.offset = max(hp.offset, 0)
}

func (hp *HistoryPanel) View() string {
	if !hp.visible {
		return ""
	}
	t := theme.Current
	line := lipgloss.NewStyle().Width(hp.width).Padding(0, 1)
	header := line.Bold(true).Foreground(t.Primary).Background(t.Surface)
	row := line.Foreground(t.Text)
	selected := line.Foreground(t.TextBright).Background(t.TabActive).Bold(true)
	tag := lipgloss.NewStyle().Foreground(t.Link)
	dim := line.Foreground(t.TextDim)

	title := fmt.Sprintf("History (%d)", len(hp.entries))
	if hp.query != "" {
		title = fmt.Sprintf("History /%s (%d)", hp.query, len(hp.entries))
	}
	lines := []string{header.Render(title)}
	if hp.Filtering() {
		lines = append(lines, line.Render(hp.filter.View()))
	}

	if len(hp.entries) == 0 {
		empty := "No history yet."
		if hp.query != "" {
			empty = "No matches."
		}
		lines = append(lines, dim.Render(empty))
	}

	width := max(hp.width-2, 10)
	now := time.Now()
	end := min(hp.offset+hp.PageSize(), len(hp.entries))
	for i := hp.offset; i < end; i++ {
		e := hp.entries[i]
		name := e.Title
		if name == "" {
			name = e.URL
		}
		prefix := "  "
		if n, ok := hp.openIn[e.URL]; ok {
			prefix = tag.Render(fmt.Sprintf("[%d]", n)) + " "
		}
		age := ago(e.VisitedAt, now)
		room := width - lipgloss.Width(prefix) - len(age) - 1
		text := prefix + padRight(truncate(name, room), room) + " " + age
		if i == hp.cursor {
			lines = append(lines, selected.Render(text))
		} else {
			lines = append(lines, row.Render(text))
		}
	}

	for len(lines) < hp.height-2 {
		lines = append(lines, "")
	}
	if e, ok := hp.Selected(); ok {
		lines = append(lines, dim.Foreground(t.Link).Render(truncate(e.URL, width)))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, dim.Italic(true).Render("j/k move  / filter  enter open  t tab  d del"))

	return lipgloss.NewStyle().
		Width(hp.width).
		Height(hp.height).
		Background(t.Background).
		Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// ago is a short age such as "now", "5m", "3h" or "2d".
func ago(then, now time.Time) string {
	d := now.Sub(then)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
