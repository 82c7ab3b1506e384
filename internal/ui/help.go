package ui

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/vidyasagar/ink/internal/theme"
)

// Cached glamour renderer, rebuilt when the width or markdown style changes.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
	cachedRendererStyle string
	rendererMu          sync.Mutex
)

// RenderMarkdown renders markdown for the terminal using the current theme's
// glamour style. On failure the raw markdown is returned with the error.
func RenderMarkdown(markdown string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	style := theme.Current.Markdown
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}

	if cachedRenderer == nil || cachedRendererWidth != width || cachedRendererStyle != style {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return markdown, err
		}
		cachedRenderer = renderer
		cachedRendererWidth = width
		cachedRendererStyle = style
	}

	out, err := cachedRenderer.Render(markdown)
	if err != nil {
		return markdown, err
	}
	return out, nil
}
