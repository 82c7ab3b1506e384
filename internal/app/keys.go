package app

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg processes key events based on current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, m.quit()
	}

	switch m.mode {
	case ModeInsert:
		return m.handleInsertMode(msg)
	case ModeCommand:
		return m.handleCommandMode(msg)
	case ModeHistory:
		return m.handleHistoryMode(msg)
	case ModeLeader:
		return m.handleLeaderMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys in normal mode.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ts := m.activeTabState()
	pendingG := m.lastGKey
	m.lastGKey = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.GotoTop):
		// gg scrolls to the top; the first g waits for the second key.
		if !pendingG {
			m.lastGKey = true
		} else if ts != nil {
			ts.view.GotoTop()
		}
		return m, nil

	case pendingG && msg.String() == "t":
		m.tabBar.NextTab()
		m.sync()
		return m, nil

	case pendingG && msg.String() == "T":
		m.tabBar.PrevTab()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.GotoBottom):
		if ts != nil {
			ts.view.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		if ts != nil {
			ts.view.LineDown(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		if ts != nil {
			ts.view.LineUp(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenURL):
		return m, m.openURLBar()

	case key.Matches(msg, m.keys.Back):
		m.goBack()
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		m.goForward()
		return m, nil

	case key.Matches(msg, m.keys.NewTab):
		m.newTab("")
		return m, nil

	case key.Matches(msg, m.keys.CloseTab):
		if !m.closeTab() {
			// Last tab.
			return m, m.quit()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.tabBar.NextTab()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tabBar.PrevTab()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.SelectTab):
		n, _ := strconv.Atoi(msg.String())
		if m.tabBar.Select(n) {
			m.sync()
		}
		return m, nil

	case key.Matches(msg, m.keys.ReopenTab):
		m.reopenTab()
		return m, nil

	case key.Matches(msg, m.keys.CommandMode):
		return m, m.openCommandBar("")

	case key.Matches(msg, m.keys.Leader):
		m.leaderPanel.Show()
		m.setMode(ModeLeader)
		return m, leaderTimeout()

	case key.Matches(msg, m.keys.Help):
		m.showHelp()
		return m, nil

	case key.Matches(msg, m.keys.HistoryToggle):
		m.toggleHistoryPanel()
		return m, nil

	case msg.Type == tea.KeyEsc:
		// Leave the help page.
		if ts != nil && ts.view.ShowingPage() {
			m.sync()
		}
		m.statusBar.ClearMessage()
		return m, nil
	}

	return m, nil
}

func (m *Model) openURLBar() tea.Cmd {
	m.setMode(ModeInsert)
	m.urlBar.Reset()
	return m.urlBar.Focus()
}

func (m *Model) openCommandBar(prefill string) tea.Cmd {
	m.setMode(ModeCommand)
	cmd := m.commandBar.Open()
	if prefill != "" {
		m.commandBar.SetValue(prefill)
	}
	m.layout()
	return cmd
}

// handleInsertMode processes keys when the URL bar is focused.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.urlBar.Blur()
		m.setMode(ModeNormal)
		m.sync()
		return m, nil

	case tea.KeyEnter:
		input := m.urlBar.Value()
		m.urlBar.Blur()
		m.setMode(ModeNormal)
		if input != "" {
			m.navigate(input)
		} else {
			m.sync()
		}
		return m, nil
	}

	_, cmd := m.urlBar.Update(msg)
	return m, cmd
}

// handleCommandMode processes keys while the command bar is open.
func (m Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commandBar.Close()
		m.setMode(ModeNormal)
		m.layout()
		return m, nil

	case tea.KeyEnter:
		line := m.commandBar.Submit()
		m.setMode(ModeNormal)
		m.layout()
		return m.executeCommand(line)
	}

	_, cmd := m.commandBar.Update(msg)
	return m, cmd
}

// handleLeaderMode runs the action bound to the key pressed after Space.
func (m Model) handleLeaderMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.leaderPanel.Hide()
	m.setMode(ModeNormal)

	switch msg.String() {
	case "o":
		return m, m.openURLBar()
	case "b":
		m.goBack()
	case "f":
		m.goForward()
	case "r":
		return m, m.openCommandBar("replace ")
	case "t":
		m.newTab("")
	case "w":
		if !m.closeTab() {
			return m, m.quit()
		}
	case "u":
		m.reopenTab()
	case "n":
		m.tabBar.NextTab()
		m.sync()
	case "p":
		m.tabBar.PrevTab()
		m.sync()
	case "h":
		m.showHistoryPanel("")
	case "c":
		m.clearTab()
	case "X":
		return m.executeCommand("clearhistory")
	case ":":
		return m, m.openCommandBar("")
	case "T":
		m.cycleTheme()
	case "?":
		m.showHelp()
	}
	return m, nil
}
