package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the normal-mode bindings. The help page is generated from it.
type KeyMap struct {
	OpenURL    key.Binding
	Back       key.Binding
	Forward    key.Binding
	ScrollDown key.Binding
	ScrollUp   key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding

	NewTab    key.Binding
	CloseTab  key.Binding
	ReopenTab key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	SelectTab key.Binding

	HistoryToggle key.Binding
	Leader        key.Binding
	CommandMode   key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// KeyGroup is a titled section of the help page.
type KeyGroup struct {
	Title    string
	Bindings []key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the vim-style defaults. Multi-key sequences (gg, gt,
// gT) are resolved in handleNormalMode; their bindings match the first key.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		OpenURL:    bind("o", "open URL or search", "o"),
		Back:       bind("H", "back in tab history", "H"),
		Forward:    bind("L", "forward in tab history", "L"),
		ScrollDown: bind("j", "scroll down", "j", "down"),
		ScrollUp:   bind("k", "scroll up", "k", "up"),
		GotoTop:    bind("gg", "top of page", "g"),
		GotoBottom: bind("G", "bottom of page", "G"),

		NewTab:    bind("Ctrl+t", "new tab", "ctrl+t"),
		CloseTab:  bind("Ctrl+w", "close tab", "ctrl+w"),
		ReopenTab: bind("T", "reopen closed tab", "T"),
		NextTab:   bind("Tab / gt", "next tab", "tab"),
		PrevTab:   bind("S-Tab / gT", "previous tab", "shift+tab"),
		SelectTab: bind("1-9", "jump to tab", "1", "2", "3", "4", "5", "6", "7", "8", "9"),

		HistoryToggle: bind("Ctrl+h", "global history", "ctrl+h"),
		Leader:        bind("Space", "shortcut palette", " "),
		CommandMode:   bind(":", "command mode", ":"),
		Help:          bind("?", "this help", "?"),
		Quit:          bind("q", "quit", "q"),
	}
}

// Groups lists the bindings in help-page order.
func (k KeyMap) Groups() []KeyGroup {
	return []KeyGroup{
		{"Navigation", []key.Binding{k.OpenURL, k.Back, k.Forward, k.ScrollDown, k.ScrollUp, k.GotoTop, k.GotoBottom}},
		{"Tabs", []key.Binding{k.NewTab, k.CloseTab, k.ReopenTab, k.NextTab, k.PrevTab, k.SelectTab}},
		{"Other", []key.Binding{k.HistoryToggle, k.Leader, k.CommandMode, k.Help, k.Quit}},
	}
}

// Markdown renders the groups as one table each.
func (k KeyMap) Markdown() string {
	var sb strings.Builder
	for _, g := range k.Groups() {
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n| --- | --- |\n", g.Title)
		for _, b := range g.Bindings {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
