package navigation

import (
	"net/url"
	"strings"
)

// trackingPrefixes match query parameters that carry analytics noise rather
// than page identity.
var trackingPrefixes = []string{"utm_", "fbclid", "gclid", "ref=", "source="}

// IsSimilarURL reports whether a and b should be treated as the same history
// entry. Besides exact equality, two absolute URLs on the same host (ignoring
// a leading "www.") are similar when they differ only by a root index alias
// or by a tracking-only query on one side. A "q" parameter on either side
// always makes them distinct. Unparseable URLs are never similar.
func IsSimilarURL(a, b string) bool {
	if a == "" || b == "" || a == b {
		return a == b
	}

	u1, ok := parseAbsolute(a)
	if !ok {
		return false
	}
	u2, ok := parseAbsolute(b)
	if !ok {
		return false
	}

	if hostKey(u1) != hostKey(u2) {
		return false
	}

	if hasSearchParam(u1.RawQuery) || hasSearchParam(u2.RawQuery) {
		return false
	}

	p1, p2 := pathKey(u1), pathKey(u2)
	if p1 != p2 {
		return isRootAlias(p1) && isRootAlias(p2)
	}

	q1, q2 := u1.RawQuery, u2.RawQuery
	switch {
	case q1 == q2:
		return true
	case q1 == "":
		return isTrackingOnly(q2)
	case q2 == "":
		return isTrackingOnly(q1)
	default:
		return false
	}
}

func parseAbsolute(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	return u, true
}

func hostKey(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// pathKey treats an empty path on a URL with a host as the root path.
func pathKey(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" && u.Host != "" {
		return "/"
	}
	return p
}

func isRootAlias(p string) bool {
	return p == "" || p == "/" || p == "/index.html"
}

// hasSearchParam reports whether the query carries a "q" parameter.
func hasSearchParam(rawQuery string) bool {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, _, _ := strings.Cut(pair, "=")
		if key == "q" {
			return true
		}
	}
	return false
}

func isTrackingOnly(rawQuery string) bool {
	seen := false
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		if !hasTrackingPrefix(pair) {
			return false
		}
		seen = true
	}
	return seen
}

func hasTrackingPrefix(pair string) bool {
	for _, p := range trackingPrefixes {
		if strings.HasPrefix(pair, p) {
			return true
		}
	}
	return false
}
