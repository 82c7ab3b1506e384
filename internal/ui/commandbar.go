package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/ink/internal/theme"
)

// CommandBar is the : prompt. Tab completes a command name from the set it
// was built with; up and down walk back through submitted lines.
type CommandBar struct {
	input textinput.Model
	open  bool
	width int

	names []string

	// recall holds submitted lines, oldest first. at indexes into it while
	// walking, and is len(recall) when the input is fresh.
	recall []string
	at     int
}

func NewCommandBar(names ...string) CommandBar {
	in := textinput.New()
	in.Prompt = ":"
	in.Placeholder = "command (tab completes)"
	in.CharLimit = 256
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return CommandBar{input: in, names: sorted}
}

func (c *CommandBar) SetWidth(w int) {
	c.width = w
	c.input.Width = w - 4
}

// Open shows an empty prompt and focuses it.
func (c *CommandBar) Open() tea.Cmd {
	c.open = true
	c.at = len(c.recall)
	c.input.Reset()
	return c.input.Focus()
}

func (c *CommandBar) Close() {
	c.open = false
	c.input.Blur()
	c.input.Reset()
}

func (c *CommandBar) IsActive() bool { return c.open }

func (c *CommandBar) Value() string { return c.input.Value() }

// SetValue replaces the input and leaves the cursor at its end.
func (c *CommandBar) SetValue(val string) {
	c.input.SetValue(val)
	c.input.CursorEnd()
}

// Submit closes the bar and returns the trimmed line. Non-empty lines are kept
// for recall, skipping a repeat of the previous one.
func (c *CommandBar) Submit() string {
	line := strings.TrimSpace(c.input.Value())
	if line != "" && (len(c.recall) == 0 || c.recall[len(c.recall)-1] != line) {
		c.recall = append(c.recall, line)
	}
	c.Close()
	return line
}

// Complete extends a partly typed command name. A single match is completed
// with a trailing space; several are extended to their common prefix. It
// returns the names that matched.
func (c *CommandBar) Complete() []string {
	val := c.input.Value()
	if strings.ContainsRune(val, ' ') {
		return nil
	}
	var matches []string
	for _, n := range c.names {
		if strings.HasPrefix(n, val) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
	case 1:
		c.SetValue(matches[0] + " ")
	default:
		c.SetValue(commonPrefix(matches))
	}
	return matches
}

func (c *CommandBar) Update(msg tea.Msg) (*CommandBar, tea.Cmd) {
	if !c.open {
		return c, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEsc:
			c.Close()
			return c, nil
		case tea.KeyEnter:
			// The app calls Submit.
			return c, nil
		case tea.KeyTab:
			c.Complete()
			return c, nil
		case tea.KeyUp:
			c.step(-1)
			return c, nil
		case tea.KeyDown:
			c.step(1)
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// step moves through recalled lines. Stepping past the newest clears the input.
func (c *CommandBar) step(delta int) {
	next := c.at + delta
	if next < 0 || next > len(c.recall) {
		return
	}
	c.at = next
	if c.at == len(c.recall) {
		c.input.Reset()
		return
	}
	c.SetValue(c.recall[c.at])
}

func (c *CommandBar) View() string {
	if !c.open {
		return ""
	}
	t := theme.Current
	return lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Width(c.width).
		Render(c.input.View())
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
