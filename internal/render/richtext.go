package render

import (
	"html"
	"strings"
	"time"

	"github.com/salmonumbrella/notion-site/internal/notion"
)

// renderRichText renders a rich text sequence to an HTML fragment.
// Span output is concatenated in order with no separator.
func (r *Renderer) renderRichText(spans []notion.RichText, rep *Report) string {
	var sb strings.Builder
	for i := range spans {
		sb.WriteString(r.renderSpan(&spans[i], rep))
	}
	return sb.String()
}

// renderSpan renders one span: content first (text, mention, or equation),
// then annotation wrappers in a fixed nesting order, color outermost of
// the annotations, and finally the hyperlink wrapper.
func (r *Renderer) renderSpan(span *notion.RichText, rep *Report) string {
	var out string

	switch {
	case span.Type == "mention" && span.Mention != nil:
		out = r.renderMention(span)
	case span.Type == "equation" && span.Equation != nil:
		expr := html.EscapeString(span.Equation.Expression)
		out = `<span class="equation" data-expression="` + expr + `">` + expr + `</span>`
	default:
		out = html.EscapeString(spanText(span))
	}

	if a := span.Annotations; a != nil {
		// Fixed order keeps combined formatting deterministic no matter
		// how the flags were set: strong innermost, code outermost.
		if a.Bold {
			out = "<strong>" + out + "</strong>"
		}
		if a.Italic {
			out = "<em>" + out + "</em>"
		}
		if a.Strikethrough {
			out = "<s>" + out + "</s>"
		}
		if a.Underline {
			out = "<u>" + out + "</u>"
		}
		if a.Code {
			out = "<code>" + out + "</code>"
		}
		if cls := colorClass(a.Color); cls != "" {
			out = `<span class="` + cls + `">` + out + `</span>`
		}
	}

	if href := spanHref(span); href != "" {
		if safe, ok := SanitizeURL(href); ok {
			out = `<a href="` + html.EscapeString(safe) + `">` + out + `</a>`
		} else {
			// Unsafe scheme: degrade to unlinked content.
			rep.add(Issue{Kind: IssueUnsafeURL, Detail: href})
		}
	}

	return out
}

// renderMention renders user, date, and page mentions. Unknown mention
// kinds fall back to the span's plain text.
func (r *Renderer) renderMention(span *notion.RichText) string {
	m := span.Mention
	switch m.Type {
	case "user":
		name := ""
		if m.User != nil {
			name = m.User.Name
		}
		if name == "" {
			name = strings.TrimPrefix(span.PlainText, "@")
		}
		if name == "" {
			name = "unknown"
		}
		return `<span class="mention mention-user">@` + html.EscapeString(name) + `</span>`
	case "date":
		if m.Date == nil {
			return html.EscapeString(span.PlainText)
		}
		text := formatDate(m.Date.Start)
		if m.Date.End != "" {
			text += " – " + formatDate(m.Date.End)
		}
		return `<span class="mention mention-date">` + html.EscapeString(text) + `</span>`
	case "page":
		title := span.PlainText
		if title == "" {
			title = "Untitled"
		}
		return `<a class="mention mention-page" href="/page/` + Slugify(title) + `">` + html.EscapeString(title) + `</a>`
	default:
		return html.EscapeString(span.PlainText)
	}
}

// spanText returns the raw text content of a span.
func spanText(span *notion.RichText) string {
	if span.Text != nil {
		return span.Text.Content
	}
	return span.PlainText
}

// spanHref returns the span's hyperlink target, if any.
func spanHref(span *notion.RichText) string {
	if span.Href != "" {
		return span.Href
	}
	if span.Text != nil && span.Text.Link != nil {
		return span.Text.Link.URL
	}
	return ""
}

// colorClass maps a Notion color name to a CSS class.
// Returns "" for the default color.
func colorClass(color string) string {
	if color == "" || color == "default" {
		return ""
	}
	if name, ok := strings.CutSuffix(color, "_background"); ok {
		return "bg-" + name
	}
	return "color-" + color
}

// formatDate formats an ISO date (or datetime) for display.
// Unparseable values pass through unchanged.
func formatDate(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("January 2, 2006")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("January 2, 2006 15:04")
	}
	return s
}
