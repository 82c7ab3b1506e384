package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/ink/internal/theme"
)

// StatusBar shows the mode, messages and history position at the bottom of the screen.
type StatusBar struct {
	mode     string
	title    string
	message  string // temporary status message
	isError  bool
	current  int
	maxPos   int
	entries  int
	tabCount int
	width    int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() StatusBar {
	return StatusBar{mode: "NORMAL"}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetMode sets the current mode indicator (NORMAL, INSERT, COMMAND, HISTORY).
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// SetTitle updates the active tab title.
func (s *StatusBar) SetTitle(title string) {
	s.title = title
}

// SetMessage sets a temporary status message.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
	s.isError = false
}

// SetError sets a temporary error message.
func (s *StatusBar) SetError(msg string) {
	s.message = msg
	s.isError = true
}

// ClearMessage removes any temporary message.
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.isError = false
}

// Message returns the temporary message, if any.
func (s *StatusBar) Message() string {
	return s.message
}

// SetPosition sets the cursor position, high-water mark and entry count of the active tab.
func (s *StatusBar) SetPosition(current, maxPos, entries int) {
	s.current, s.maxPos, s.entries = current, maxPos, entries
}

// SetTabCount sets the number of open tabs.
func (s *StatusBar) SetTabCount(n int) {
	s.tabCount = n
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current

	modeBg := t.Secondary
	switch s.mode {
	case "NORMAL":
		modeBg = t.Primary
	case "INSERT":
		modeBg = t.Success
	case "COMMAND":
		modeBg = t.Accent
	}
	modeStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(t.Background).
		Background(modeBg)
	mode := modeStyle.Render(s.mode)

	leftStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Padding(0, 1)

	var left string
	switch {
	case s.message != "" && s.isError:
		left = leftStyle.Foreground(t.Error).Render(s.message)
	case s.message != "":
		left = leftStyle.Foreground(t.Info).Render(s.message)
	case s.title != "":
		left = leftStyle.Render(s.title)
	}

	rightStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Padding(0, 1)
	right := rightStyle.Render(fmt.Sprintf("pos %d/%d  %d entries  %d tabs", s.current, s.maxPos, s.entries, s.tabCount))

	spacerWidth := max(s.width-lipgloss.Width(mode)-lipgloss.Width(left)-lipgloss.Width(right), 0)
	spacer := lipgloss.NewStyle().
		Background(t.Surface).
		Render(strings.Repeat(" ", spacerWidth))

	return mode + left + spacer + right
}
