package render

import "testing"

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"https", "https://example.com/page", true},
		{"http", "http://example.com", true},
		{"mailto", "mailto:hi@example.com", true},
		{"tel", "tel:+15551234567", true},
		{"uppercase scheme", "HTTPS://example.com", true},
		{"fragment", "#section-2", true},
		{"root-relative path", "/page/about", true},
		{"surrounding whitespace trimmed", "  https://example.com  ", true},
		{"empty", "", false},
		{"protocol-relative", "//evil.example.com", false},
		{"javascript", "javascript:alert(1)", false},
		{"vbscript", "vbscript:msgbox(1)", false},
		{"data uri", "data:text/html,<script>", false},
		{"embedded newline", "https://example.com/\nfoo", false},
		{"relative path", "page/about", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SanitizeURL(tt.raw)
			if ok != tt.ok {
				t.Errorf("SanitizeURL(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
		})
	}
}

func TestSanitizeImageURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"https", "https://cdn.example.com/pic.png", true},
		{"data png", "data:image/png;base64,iVBORw0KGgo=", true},
		{"data jpeg uppercase", "DATA:IMAGE/JPEG;base64,/9j/4AAQ", true},
		{"data svg", "data:image/svg+xml;base64,PHN2Zz4=", false},
		{"data html", "data:text/html,<script>", false},
		{"javascript", "javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SanitizeImageURL(tt.raw)
			if ok != tt.ok {
				t.Errorf("SanitizeImageURL(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
		})
	}
}
