package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSimilarURL(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "https://a.com/x", "https://a.com/x", true},
		{"both empty", "", "", true},
		{"one empty", "", "https://a.com", false},
		{"trailing slash", "https://example.com/", "https://example.com", true},
		{"trailing slash reversed", "https://example.com", "https://example.com/", true},
		{"index alias", "https://example.com/", "https://example.com/index.html", true},
		{"index alias reversed", "https://example.com/index.html", "https://example.com/", true},
		{"www stripped", "https://www.example.com/page", "https://example.com/page", true},
		{"host case", "https://Example.COM/page", "https://example.com/page", true},
		{"different host", "https://a.com/page", "https://b.com/page", false},
		{"different path", "https://a.com/one", "https://a.com/two", false},
		{"non-root index", "https://a.com/docs/", "https://a.com/docs/index.html", false},
		{"utm added", "https://a.com/page", "https://a.com/page?utm_source=x", true},
		{"utm removed", "https://a.com/page?utm_source=x&utm_medium=y", "https://a.com/page", true},
		{"fbclid", "https://a.com/page", "https://a.com/page?fbclid=abc", true},
		{"gclid", "https://a.com/page", "https://a.com/page?gclid=abc", true},
		{"ref", "https://a.com/page", "https://a.com/page?ref=hn", true},
		{"source", "https://a.com/page", "https://a.com/page?source=feed", true},
		{"mixed tracking and real", "https://a.com/page", "https://a.com/page?utm_source=x&id=3", false},
		{"real query", "https://a.com/page", "https://a.com/page?id=3", false},
		{"same query", "https://a.com/page?id=3", "https://a.com/page?id=3#top", true},
		{"different tracking both sides", "https://a.com/page?utm_source=a", "https://a.com/page?utm_source=b", false},
		{"search query", "https://a.com/search", "https://a.com/search?q=foo", false},
		{"search query both", "https://a.com/search?q=foo", "https://a.com/search?q=foo&utm_source=x", false},
		{"search guard beats tracking", "https://a.com/s?q=1", "https://a.com/s", false},
		{"newtab sentinel", "newtab", "https://a.com", false},
		{"relative", "/page", "/page/", false},
		{"malformed", "https://a.com/%zz", "https://a.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSimilarURL(tt.a, tt.b))
			assert.Equal(t, tt.want, IsSimilarURL(tt.b, tt.a), "similarity must be symmetric")
		})
	}
}
