package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vidyasagar/ink/internal/theme"
	"github.com/vidyasagar/ink/internal/ui"
)

// commandNames are offered for tab completion in the command bar.
var commandNames = []string{
	"back", "clear", "clearhistory", "forward", "help", "history", "open",
	"persist", "quit", "reopen", "replace", "tabclose", "tabnew", "theme",
}

// executeCommand handles :commands.
func (m Model) executeCommand(line string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return m, nil
	}
	arg := strings.Join(parts[1:], " ")

	switch parts[0] {
	case "q", "quit":
		return m, m.quit()

	case "o", "open":
		if arg == "" {
			m.statusBar.SetError("Usage: :open <url>")
			break
		}
		m.navigate(arg)

	case "back":
		m.goBack()

	case "forward", "fwd":
		m.goForward()

	case "replace":
		if arg == "" {
			m.statusBar.SetError("Usage: :replace <url>")
			break
		}
		m.replaceCurrent(arg)

	case "tab", "tabnew":
		m.newTab(arg)

	case "tabclose", "tc":
		if !m.closeTab() {
			m.statusBar.SetError("Cannot close the last tab")
		}

	case "reopen":
		m.reopenTab()

	case "history":
		m.showHistoryPanel(arg)

	case "clearhistory":
		if m.historyStore == nil {
			m.statusBar.SetError("History not available")
			break
		}
		if err := m.historyStore.Clear(); err != nil {
			m.log.Warn("clearing history", zap.Error(err))
			m.statusBar.SetError("Could not clear history")
			break
		}
		m.historyPanel.SetEntries(nil, "")
		m.statusBar.SetMessage("History cleared")

	case "clear":
		m.clearTab()

	case "theme":
		switch {
		case arg == "":
			m.statusBar.SetMessage(fmt.Sprintf("Current: %s | Available: %s", theme.Current.Name, strings.Join(theme.List(), ", ")))
		case theme.Set(arg):
			m.saveTheme(arg)
			m.sync()
		default:
			m.statusBar.SetError(fmt.Sprintf("Unknown theme: %s (available: %s)", arg, strings.Join(theme.List(), ", ")))
		}

	case "persist":
		switch arg {
		case "on", "off":
			m.config.PersistAllTabs = arg == "on"
			if err := m.config.Save(); err != nil {
				m.log.Warn("saving config", zap.Error(err))
				m.statusBar.SetError("Could not save config")
				break
			}
			m.statusBar.SetMessage("Persist all tabs: " + arg)
		case "":
			state := "off"
			if m.config.PersistAllTabs {
				state = "on"
			}
			m.statusBar.SetMessage("Persist all tabs: " + state)
		default:
			m.statusBar.SetError("Usage: :persist on|off")
		}

	case "help", "h":
		m.showHelp()

	default:
		m.statusBar.SetError(fmt.Sprintf("Unknown command: %s", parts[0]))
	}

	return m, nil
}

// cycleTheme switches to the next available theme.
func (m *Model) cycleTheme() {
	themes := theme.List()
	next := themes[0]
	for i, name := range themes {
		if name == theme.Current.Name {
			next = themes[(i+1)%len(themes)]
			break
		}
	}
	theme.Set(next)
	m.saveTheme(next)
	m.sync()
}

func (m *Model) saveTheme(name string) {
	m.statusBar.SetMessage(fmt.Sprintf("Theme: %s", name))
	if m.config.Theme == name {
		return
	}
	m.config.Theme = name
	if err := m.config.Save(); err != nil {
		m.log.Warn("saving config", zap.Error(err))
	}
}

const helpIntro = `# ink

Every tab keeps its own history. Visiting a page appends it after the
current entry and drops anything ahead of it. Visiting a near-duplicate
of the current page (same page, ` + "`www.`" + ` prefix, tracking parameters)
updates the current entry instead.

`

const helpCommands = `## History panel

Rows tagged ` + "`[n]`" + ` are showing in tab n; opening one switches to that tab.
` + "`/`" + ` filters by title or URL, ` + "`Esc`" + ` drops the filter, ` + "`t`" + ` opens in a
new tab and ` + "`d`" + ` deletes.

## Commands

| Command | Action |
| --- | --- |
| ` + "`:open <url>`" + ` | Navigate the current tab |
| ` + "`:replace <url>`" + ` | Rewrite the current entry |
| ` + "`:back`" + `, ` + "`:forward`" + ` | Move through tab history |
| ` + "`:tabnew [url]`" + ` | New tab |
| ` + "`:tabclose`" + ` | Close tab |
| ` + "`:reopen`" + ` | Reopen closed tab |
| ` + "`:clear`" + ` | Clear this tab's history |
| ` + "`:history [query]`" + ` | Global history, optionally filtered |
| ` + "`:clearhistory`" + ` | Clear global history |
| ` + "`:theme <name>`" + ` | Change theme |
| ` + "`:persist on\\|off`" + ` | Restore tabs on next start |
| ` + "`:quit`" + ` | Quit |
`

// showHelp renders the keybinding reference into the active tab's view.
func (m *Model) showHelp() {
	ts := m.activeTabState()
	if ts == nil {
		return
	}
	content, err := ui.RenderMarkdown(helpIntro+m.keys.Markdown()+helpCommands, m.width)
	if err != nil {
		m.log.Debug("rendering help", zap.Error(err))
	}
	ts.view.SetPage(content)
	m.statusBar.SetTitle("Help")
}
