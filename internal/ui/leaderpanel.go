package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/ink/internal/theme"
)

// LeaderBinding represents a single leader key shortcut.
type LeaderBinding struct {
	Key  string // key pressed after Space
	Desc string // short description
}

// LeaderGroup is a named group of leader shortcuts.
type LeaderGroup struct {
	Name     string
	Icon     string
	Bindings []LeaderBinding
}

// LeaderPanel renders the popup shortcut palette shown after pressing the leader key.
type LeaderPanel struct {
	visible bool
	width   int
	height  int
	groups  []LeaderGroup
}

// NewLeaderPanel creates a leader panel with the default shortcut groups.
func NewLeaderPanel() LeaderPanel {
	return LeaderPanel{
		groups: defaultLeaderGroups(),
	}
}

// defaultLeaderGroups returns the built-in shortcut groups.
func defaultLeaderGroups() []LeaderGroup {
	return []LeaderGroup{
		{
			Name: "Navigate",
			Icon: "🧭",
			Bindings: []LeaderBinding{
				{Key: "o", Desc: "Open URL"},
				{Key: "b", Desc: "Back"},
				{Key: "f", Desc: "Forward"},
				{Key: "r", Desc: "Replace entry"},
			},
		},
		{
			Name: "Tabs",
			Icon: "📑",
			Bindings: []LeaderBinding{
				{Key: "t", Desc: "New tab"},
				{Key: "w", Desc: "Close tab"},
				{Key: "u", Desc: "Reopen closed"},
				{Key: "n", Desc: "Next tab"},
				{Key: "p", Desc: "Prev tab"},
			},
		},
		{
			Name: "History",
			Icon: "📜",
			Bindings: []LeaderBinding{
				{Key: "h", Desc: "Global history"},
				{Key: "c", Desc: "Clear tab"},
				{Key: "X", Desc: "Clear global"},
			},
		},
		{
			Name: "Views",
			Icon: "👁",
			Bindings: []LeaderBinding{
				{Key: ":", Desc: "Command"},
				{Key: "T", Desc: "Theme cycle"},
				{Key: "?", Desc: "Help"},
			},
		},
	}
}

// Groups returns the shortcut groups shown by the palette.
func (lp *LeaderPanel) Groups() []LeaderGroup {
	return lp.groups
}

// Show makes the panel visible.
func (lp *LeaderPanel) Show() {
	lp.visible = true
}

// Hide closes the panel.
func (lp *LeaderPanel) Hide() {
	lp.visible = false
}

// IsVisible reports whether the panel is shown.
func (lp *LeaderPanel) IsVisible() bool {
	return lp.visible
}

// SetSize sets the available area for rendering.
func (lp *LeaderPanel) SetSize(w, h int) {
	lp.width = w
	lp.height = h
}

// View renders the palette as a bordered box of group columns.
func (lp *LeaderPanel) View() string {
	if !lp.visible {
		return ""
	}

	t := theme.Current
	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	badgeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Background).
		Background(t.Secondary).
		Padding(0, 1)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border)
	colStyle := lipgloss.NewStyle().Width(20)

	rows := 0
	for _, g := range lp.groups {
		rows = max(rows, len(g.Bindings))
	}

	var columns []string
	for i, g := range lp.groups {
		lines := []string{groupStyle.Render(g.Icon + " " + g.Name), ""}
		for _, b := range g.Bindings {
			lines = append(lines, badgeStyle.Render(b.Key)+descStyle.Render(" "+b.Desc))
		}
		for len(lines) < rows+2 {
			lines = append(lines, "")
		}
		columns = append(columns, colStyle.Render(strings.Join(lines, "\n")))
		if i < len(lp.groups)-1 {
			columns = append(columns, sepStyle.Render(strings.Repeat(" │ \n", rows+1)+" │ "))
		}
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	rule := sepStyle.Render(strings.Repeat("─", lipgloss.Width(body)))
	footer := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).
		Render(fmt.Sprintf("%d shortcuts · any other key dismisses", lp.count()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("Space"),
		rule,
		body,
		rule,
		footer,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
}

func (lp *LeaderPanel) count() int {
	n := 0
	for _, g := range lp.groups {
		n += len(g.Bindings)
	}
	return n
}
