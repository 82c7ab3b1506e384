package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/ink/internal/navigation"
	"github.com/vidyasagar/ink/internal/theme"
)

// TabView shows the navigation history of one tab, or a full-page screen
// such as help, inside a scrollable viewport.
type TabView struct {
	viewport viewport.Model
	ready    bool
	snap     navigation.Snapshot
	page     string // overrides the history list when set
}

// NewTabView creates a view (dimensions set on first WindowSizeMsg).
func NewTabView() TabView {
	return TabView{}
}

// SetSize updates the viewport dimensions.
func (tv *TabView) SetSize(width, height int) {
	if !tv.ready {
		tv.viewport = viewport.New(width, height)
		tv.viewport.MouseWheelEnabled = true
		tv.viewport.MouseWheelDelta = 3
		tv.ready = true
	} else {
		tv.viewport.Width = width
		tv.viewport.Height = height
	}
	tv.refresh()
}

// SetSnapshot shows snap and drops any full-page screen.
func (tv *TabView) SetSnapshot(snap navigation.Snapshot) {
	tv.snap = snap
	tv.page = ""
	tv.refresh()
}

// SetPage shows content instead of the history list until the next SetSnapshot.
func (tv *TabView) SetPage(content string) {
	tv.page = content
	tv.refresh()
	if tv.ready {
		tv.viewport.GotoTop()
	}
}

// ShowingPage reports whether a full-page screen is displayed.
func (tv *TabView) ShowingPage() bool {
	return tv.page != ""
}

func (tv *TabView) refresh() {
	if !tv.ready {
		return
	}
	if tv.page != "" {
		tv.viewport.SetContent(tv.page)
		return
	}
	tv.viewport.SetContent(RenderSnapshot(tv.snap, tv.viewport.Width))
}

// Update forwards messages to the viewport.
func (tv *TabView) Update(msg tea.Msg) (*TabView, tea.Cmd) {
	if !tv.ready {
		return tv, nil
	}
	var cmd tea.Cmd
	tv.viewport, cmd = tv.viewport.Update(msg)
	return tv, cmd
}

// View renders the viewport.
func (tv *TabView) View() string {
	if !tv.ready {
		return "\n  Initializing..."
	}
	return tv.viewport.View()
}

// LineDown scrolls down n lines.
func (tv *TabView) LineDown(n int) {
	if tv.ready {
		tv.viewport.LineDown(n)
	}
}

// LineUp scrolls up n lines.
func (tv *TabView) LineUp(n int) {
	if tv.ready {
		tv.viewport.LineUp(n)
	}
}

// GotoTop scrolls to the top.
func (tv *TabView) GotoTop() {
	if tv.ready {
		tv.viewport.GotoTop()
	}
}

// GotoBottom scrolls to the bottom.
func (tv *TabView) GotoBottom() {
	if tv.ready {
		tv.viewport.GotoBottom()
	}
}

// RenderSnapshot draws a tab's history, oldest first. The current entry is
// marked and entries ahead of it are dimmed.
func RenderSnapshot(snap navigation.Snapshot, width int) string {
	t := theme.Current

	if len(snap.Entries) == 1 && snap.Entries[0].URL == navigation.NewTabURL {
		return renderWelcome()
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	posStyle := lipgloss.NewStyle().Foreground(t.TextDim).Width(6).Align(lipgloss.Right)
	pastStyle := lipgloss.NewStyle().Foreground(t.Text)
	currentStyle := lipgloss.NewStyle().Foreground(t.Cursor).Bold(true)
	forwardStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)

	maxURL := max(width-12, 10)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("  Tab history (%d entries)", snap.Size)))
	sb.WriteString("\n\n")

	for _, e := range snap.Entries {
		url := e.URL
		if url == navigation.NewTabURL {
			url = "New Tab"
		}
		if len(url) > maxURL {
			url = url[:maxURL-3] + "..."
		}

		marker := "  "
		style := pastStyle
		switch {
		case e.Position == snap.Current:
			marker = "▸ "
			style = currentStyle
		case e.Position > snap.Current:
			style = forwardStyle
		}

		sb.WriteString(posStyle.Render(fmt.Sprintf("%d", e.Position)))
		sb.WriteString(" ")
		sb.WriteString(style.Render(marker + url))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderWelcome() string {
	t := theme.Current

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	keyStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("\n  ink"))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("  New Tab"))
	sb.WriteString("\n\n")

	shortcuts := []struct{ key, desc string }{
		{"o", "Open URL / search"},
		{"H / L", "Go back / forward"},
		{"Ctrl+t", "New tab"},
		{"Ctrl+w", "Close tab"},
		{"T", "Reopen closed tab"},
		{"1-9", "Jump to tab"},
		{"Ctrl+h", "Browsing history"},
		{":", "Command mode"},
		{"?", "All keybindings"},
		{"q", "Quit"},
	}
	for _, s := range shortcuts {
		sb.WriteString(keyStyle.Render(fmt.Sprintf("    %-10s", s.key)))
		sb.WriteString(descStyle.Render(s.desc))
		sb.WriteString("\n")
	}

	return sb.String()
}
