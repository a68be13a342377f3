package notion

import (
	"encoding/json"
	"strings"
)

// RichText represents a rich text span.
// See: https://developers.notion.com/reference/rich-text
type RichText struct {
	Type        string       `json:"type"`
	Text        *TextContent `json:"text,omitempty"`
	Mention     *Mention     `json:"mention,omitempty"`
	Equation    *Equation    `json:"equation,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        string       `json:"href,omitempty"`
}

// TextContent represents the text portion of rich text.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link represents a hyperlink.
type Link struct {
	URL string `json:"url"`
}

// Mention represents a mention in rich text.
type Mention struct {
	Type string       `json:"type"`
	User *UserMention `json:"user,omitempty"`
	Page *PageMention `json:"page,omitempty"`
	Date *DateMention `json:"date,omitempty"`
}

// UserMention represents a user mention.
type UserMention struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PageMention represents a page mention.
type PageMention struct {
	ID string `json:"id"`
}

// DateMention represents a date or date-range mention.
type DateMention struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Equation represents an inline equation span.
type Equation struct {
	Expression string `json:"expression"`
}

// Annotations represents text formatting annotations.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// RichTextsFrom decodes a raw rich_text array (as found inside a block's
// Content map) into typed spans. Returns nil on any shape it does not
// recognize; malformed spans never abort decoding of their siblings.
func RichTextsFrom(v interface{}) []RichText {
	if v == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var spans []RichText
	if err := json.Unmarshal(raw, &spans); err != nil {
		return nil
	}
	return spans
}

// PlainText concatenates the plain text of all spans.
func PlainText(spans []RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.PlainText != "" {
			sb.WriteString(span.PlainText)
			continue
		}
		if span.Text != nil {
			sb.WriteString(span.Text.Content)
		}
	}
	return sb.String()
}
