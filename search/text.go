package search

import (
	"html"
	"regexp"
	"strings"
)

var reTags = regexp.MustCompile(`<[^>]+>`)

// \s does not cover the no-break space that &nbsp; decodes to.
var reWhitespace = regexp.MustCompile(`[\s\x{00a0}]+`)

// cleanHTML removes tags, decodes entities and collapses whitespace.
func cleanHTML(s string) string {
	s = html.UnescapeString(reTags.ReplaceAllString(s, ""))
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
