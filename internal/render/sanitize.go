package render

import "strings"

// linkSchemes are the schemes allowed for hrefs and iframe/media sources.
var linkSchemes = []string{"http://", "https://", "mailto:", "tel:"}

// SanitizeURL validates a URL for use as an href or media/iframe source.
// Allowed: http(s), mailto, tel, same-document fragments, and
// root-relative paths. Everything else (javascript:, data:, vbscript:,
// protocol-relative //host, ...) is rejected. Returns the URL unchanged
// and true when it passes.
func SanitizeURL(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", false
	}
	if strings.ContainsAny(u, "\n\r\t") {
		return "", false
	}
	if strings.HasPrefix(u, "#") {
		return u, true
	}
	// Root-relative, but not protocol-relative.
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return u, true
	}
	lower := strings.ToLower(u)
	for _, scheme := range linkSchemes {
		if strings.HasPrefix(lower, scheme) {
			return u, true
		}
	}
	return "", false
}

// SanitizeImageURL validates a URL for use as an image source. On top of
// the SanitizeURL policy it admits data:image/* URIs, except SVG data
// URIs which can carry script.
func SanitizeImageURL(raw string) (string, bool) {
	if u, ok := SanitizeURL(raw); ok {
		return u, true
	}

	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "data:image/") && !strings.HasPrefix(lower, "data:image/svg") {
		return u, true
	}
	return "", false
}
