package render

import (
	"testing"

	"github.com/salmonumbrella/notion-site/internal/notion"
)

func renderSpans(t *testing.T, spans []notion.RichText) (string, *Report) {
	t.Helper()
	rep := &Report{}
	return New(&fakeSource{}).renderRichText(spans, rep), rep
}

func TestAnnotationNesting(t *testing.T) {
	tests := []struct {
		name        string
		annotations notion.Annotations
		want        string
	}{
		{
			name: "plain",
			want: "text",
		},
		{
			name:        "bold",
			annotations: notion.Annotations{Bold: true},
			want:        "<strong>text</strong>",
		},
		{
			name:        "bold italic",
			annotations: notion.Annotations{Bold: true, Italic: true},
			want:        "<em><strong>text</strong></em>",
		},
		{
			name:        "code wraps formatting",
			annotations: notion.Annotations{Bold: true, Code: true},
			want:        "<code><strong>text</strong></code>",
		},
		{
			name:        "all flags with color",
			annotations: notion.Annotations{Bold: true, Italic: true, Strikethrough: true, Underline: true, Code: true, Color: "red"},
			want:        `<span class="color-red"><code><u><s><em><strong>text</strong></em></s></u></code></span>`,
		},
		{
			name:        "background color",
			annotations: notion.Annotations{Color: "yellow_background"},
			want:        `<span class="bg-yellow">text</span>`,
		},
		{
			name:        "default color adds no span",
			annotations: notion.Annotations{Bold: true, Color: "default"},
			want:        "<strong>text</strong>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotations := tt.annotations
			span := notion.RichText{
				Type:        "text",
				Text:        &notion.TextContent{Content: "text"},
				Annotations: &annotations,
			}
			got, _ := renderSpans(t, []notion.RichText{span})
			if got != tt.want {
				t.Errorf("renderRichText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanHyperlink(t *testing.T) {
	t.Run("anchor wraps outside all annotations", func(t *testing.T) {
		span := notion.RichText{
			Type:        "text",
			Text:        &notion.TextContent{Content: "link", Link: &notion.Link{URL: "https://example.com"}},
			Annotations: &notion.Annotations{Bold: true, Color: "blue"},
		}
		got, _ := renderSpans(t, []notion.RichText{span})
		want := `<a href="https://example.com"><span class="color-blue"><strong>link</strong></span></a>`
		if got != want {
			t.Errorf("renderRichText() = %q, want %q", got, want)
		}
	})

	t.Run("unsafe scheme degrades to unlinked text", func(t *testing.T) {
		span := notion.RichText{
			Type: "text",
			Text: &notion.TextContent{Content: "click me", Link: &notion.Link{URL: "javascript:alert(1)"}},
		}
		got, rep := renderSpans(t, []notion.RichText{span})
		if got != "click me" {
			t.Errorf("renderRichText() = %q, want %q", got, "click me")
		}
		if !rep.Has(IssueUnsafeURL) {
			t.Error("expected an unsafe_url issue")
		}
	})

	t.Run("href field wins over text link", func(t *testing.T) {
		span := notion.RichText{
			Type: "text",
			Text: &notion.TextContent{Content: "x", Link: &notion.Link{URL: "https://ignored.example.com"}},
			Href: "https://example.com/real",
		}
		got, _ := renderSpans(t, []notion.RichText{span})
		want := `<a href="https://example.com/real">x</a>`
		if got != want {
			t.Errorf("renderRichText() = %q, want %q", got, want)
		}
	})
}

func TestSpanEscaping(t *testing.T) {
	span := notion.RichText{
		Type: "text",
		Text: &notion.TextContent{Content: `<b> & "quotes"`},
	}
	got, _ := renderSpans(t, []notion.RichText{span})
	want := `&lt;b&gt; &amp; &#34;quotes&#34;`
	if got != want {
		t.Errorf("renderRichText() = %q, want %q", got, want)
	}
}

func TestRenderMentions(t *testing.T) {
	tests := []struct {
		name string
		span notion.RichText
		want string
	}{
		{
			name: "user",
			span: notion.RichText{
				Type:    "mention",
				Mention: &notion.Mention{Type: "user", User: &notion.UserMention{ID: "u1", Name: "Ada"}},
			},
			want: `<span class="mention mention-user">@Ada</span>`,
		},
		{
			name: "user without a name falls back to plain text",
			span: notion.RichText{
				Type:      "mention",
				Mention:   &notion.Mention{Type: "user", User: &notion.UserMention{ID: "u1"}},
				PlainText: "@Grace",
			},
			want: `<span class="mention mention-user">@Grace</span>`,
		},
		{
			name: "date",
			span: notion.RichText{
				Type:    "mention",
				Mention: &notion.Mention{Type: "date", Date: &notion.DateMention{Start: "2026-03-14"}},
			},
			want: `<span class="mention mention-date">March 14, 2026</span>`,
		},
		{
			name: "date range",
			span: notion.RichText{
				Type:    "mention",
				Mention: &notion.Mention{Type: "date", Date: &notion.DateMention{Start: "2026-03-14", End: "2026-03-16"}},
			},
			want: `<span class="mention mention-date">March 14, 2026 – March 16, 2026</span>`,
		},
		{
			name: "page",
			span: notion.RichText{
				Type:      "mention",
				Mention:   &notion.Mention{Type: "page", Page: &notion.PageMention{ID: "p1"}},
				PlainText: "Release Notes",
			},
			want: `<a class="mention mention-page" href="/page/release-notes">Release Notes</a>`,
		},
		{
			name: "unknown mention kind falls back to plain text",
			span: notion.RichText{
				Type:      "mention",
				Mention:   &notion.Mention{Type: "database"},
				PlainText: "Some DB",
			},
			want: "Some DB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := renderSpans(t, []notion.RichText{tt.span})
			if got != tt.want {
				t.Errorf("renderRichText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderEquationSpan(t *testing.T) {
	span := notion.RichText{
		Type:     "equation",
		Equation: &notion.Equation{Expression: "a < b"},
	}
	got, _ := renderSpans(t, []notion.RichText{span})
	want := `<span class="equation" data-expression="a &lt; b">a &lt; b</span>`
	if got != want {
		t.Errorf("renderRichText() = %q, want %q", got, want)
	}
}

func TestColorClass(t *testing.T) {
	tests := []struct {
		color string
		want  string
	}{
		{"", ""},
		{"default", ""},
		{"red", "color-red"},
		{"blue_background", "bg-blue"},
	}

	for _, tt := range tests {
		if got := colorClass(tt.color); got != tt.want {
			t.Errorf("colorClass(%q) = %q, want %q", tt.color, got, tt.want)
		}
	}
}
