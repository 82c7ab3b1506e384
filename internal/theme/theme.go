package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text       lipgloss.Color
	TextDim    lipgloss.Color
	TextBright lipgloss.Color

	Background  lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	// Current entry in a tab's history list.
	Cursor lipgloss.Color
	Link   lipgloss.Color

	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color

	TabActive   lipgloss.Color
	TabInactive lipgloss.Color

	// Glamour standard style used for markdown screens.
	Markdown string
}

var themes = map[string]Theme{}

func register(t Theme) Theme {
	themes[t.Name] = t
	return t
}

var Default = register(Theme{
	Name:        "default",
	Primary:     "#7C3AED",
	Secondary:   "#06B6D4",
	Accent:      "#F59E0B",
	Text:        "#E2E8F0",
	TextDim:     "#64748B",
	TextBright:  "#F8FAFC",
	Background:  "#0F172A",
	Surface:     "#1E293B",
	Border:      "#334155",
	BorderFocus: "#7C3AED",
	Cursor:      "#F59E0B",
	Link:        "#38BDF8",
	Error:       "#EF4444",
	Success:     "#22C55E",
	Warning:     "#F59E0B",
	Info:        "#3B82F6",
	TabActive:   "#7C3AED",
	TabInactive: "#475569",
	Markdown:    "dark",
})

var Gruvbox = register(Theme{
	Name:        "gruvbox",
	Primary:     "#D65D0E",
	Secondary:   "#458588",
	Accent:      "#D79921",
	Text:        "#EBDBB2",
	TextDim:     "#928374",
	TextBright:  "#FBF1C7",
	Background:  "#282828",
	Surface:     "#3C3836",
	Border:      "#504945",
	BorderFocus: "#D65D0E",
	Cursor:      "#FABD2F",
	Link:        "#83A598",
	Error:       "#FB4934",
	Success:     "#B8BB26",
	Warning:     "#FABD2F",
	Info:        "#83A598",
	TabActive:   "#D65D0E",
	TabInactive: "#665C54",
	Markdown:    "dark",
})

var Nord = register(Theme{
	Name:        "nord",
	Primary:     "#88C0D0",
	Secondary:   "#81A1C1",
	Accent:      "#EBCB8B",
	Text:        "#ECEFF4",
	TextDim:     "#4C566A",
	TextBright:  "#ECEFF4",
	Background:  "#2E3440",
	Surface:     "#3B4252",
	Border:      "#434C5E",
	BorderFocus: "#88C0D0",
	Cursor:      "#EBCB8B",
	Link:        "#88C0D0",
	Error:       "#BF616A",
	Success:     "#A3BE8C",
	Warning:     "#EBCB8B",
	Info:        "#5E81AC",
	TabActive:   "#88C0D0",
	TabInactive: "#4C566A",
	Markdown:    "dracula",
})

var Solarized = register(Theme{
	Name:        "solarized",
	Primary:     "#268BD2",
	Secondary:   "#2AA198",
	Accent:      "#B58900",
	Text:        "#586E75",
	TextDim:     "#93A1A1",
	TextBright:  "#073642",
	Background:  "#FDF6E3",
	Surface:     "#EEE8D5",
	Border:      "#93A1A1",
	BorderFocus: "#268BD2",
	Cursor:      "#CB4B16",
	Link:        "#268BD2",
	Error:       "#DC322F",
	Success:     "#859900",
	Warning:     "#B58900",
	Info:        "#268BD2",
	TabActive:   "#268BD2",
	TabInactive: "#586E75",
	Markdown:    "light",
})

// Current is the active theme.
var Current = Default

// Set changes the active theme by name.
func Set(name string) bool {
	if t, ok := themes[name]; ok {
		Current = t
		return true
	}
	return false
}

// List returns all available theme names in alphabetical order.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
