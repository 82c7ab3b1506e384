package app

import (
	"net/url"
	"strings"

	"github.com/vidyasagar/ink/internal/navigation"
)

const searchURL = "https://html.duckduckgo.com/html/?q="

// normalizeURL turns typed input into a navigable URL.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == navigation.NewTabURL {
		return raw
	}

	// Keep anything that already has a scheme.
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return raw
	}

	// A dotted word without spaces looks like a host.
	if strings.Contains(raw, ".") && !strings.Contains(raw, " ") {
		return "https://" + raw
	}

	return searchURL + url.QueryEscape(raw)
}

// titleFor derives a tab title from a URL: its host, or the URL itself.
func titleFor(raw string) string {
	if raw == "" || raw == navigation.NewTabURL {
		return "New Tab"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	if strings.HasPrefix(raw, searchURL) {
		return "Search: " + u.Query().Get("q")
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
