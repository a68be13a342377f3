package site

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every tag, leaving text content only. Stripped
// tags leave a space so adjacent blocks don't run together; the
// whitespace collapse below cleans up the extras.
var stripPolicy = newStripPolicy()

func newStripPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// Excerpt derives a plain-text description from rendered HTML: tags
// stripped, whitespace collapsed, truncated on a rune boundary at
// maxRunes with a trailing ellipsis. maxRunes <= 0 disables truncation.
func Excerpt(renderedHTML string, maxRunes int) string {
	text := html.UnescapeString(stripPolicy.Sanitize(renderedHTML))
	text = strings.Join(strings.Fields(text), " ")

	if maxRunes <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := runes[:maxRunes]
	// Back up to the last space so we don't cut a word in half.
	if idx := lastSpace(cut); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(string(cut), " ") + "…"
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
