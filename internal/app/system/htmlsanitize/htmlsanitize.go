// Package htmlsanitize cleans user-supplied announcement text before it is
// stored. Bodies may carry a safe subset of HTML; titles and other short
// fields are reduced to plain text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	bodyOnce   sync.Once
	bodyPolicy *bluemonday.Policy

	textPolicy = bluemonday.StrictPolicy()
)

func body() *bluemonday.Policy {
	bodyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		bodyPolicy = p
	})
	return bodyPolicy
}

// Body sanitizes an announcement body, keeping formatting, lists, links,
// tables and images while removing scripts, event handlers and unsafe URLs.
func Body(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return body().Sanitize(s)
}

// Text strips all markup and returns plain text with entities decoded.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
