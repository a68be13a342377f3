package notion

import (
	"context"
	"fmt"
)

// Page represents a Notion page.
// See: https://developers.notion.com/reference/page
type Page struct {
	Object         string                 `json:"object"`
	ID             string                 `json:"id"`
	CreatedTime    string                 `json:"created_time"`
	LastEditedTime string                 `json:"last_edited_time"`
	Cover          map[string]interface{} `json:"cover,omitempty"`
	Icon           map[string]interface{} `json:"icon,omitempty"`
	Parent         map[string]interface{} `json:"parent,omitempty"`
	Archived       bool                   `json:"archived"`
	InTrash        bool                   `json:"in_trash,omitempty"`
	Properties     map[string]interface{} `json:"properties"`
	URL            string                 `json:"url,omitempty"`
	PublicURL      string                 `json:"public_url,omitempty"`
}

// GetPage retrieves a page by ID.
// See: https://developers.notion.com/reference/retrieve-a-page
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	if pageID == "" {
		return nil, fmt.Errorf("page ID is required")
	}

	path := fmt.Sprintf("/pages/%s", pageID)
	var page Page

	if err := c.doGet(ctx, path, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// Title returns the page's title, found by scanning properties for the
// one with type "title". Returns "" when the page has no title set.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		m, ok := prop.(map[string]interface{})
		if !ok {
			continue
		}
		if t, _ := m["type"].(string); t != "title" {
			continue
		}
		return PlainText(RichTextsFrom(m["title"]))
	}
	return ""
}

// RichTextProperty returns the plain text of a rich_text property,
// or "" if the property is missing or of a different type.
func (p *Page) RichTextProperty(name string) string {
	m, ok := p.Properties[name].(map[string]interface{})
	if !ok {
		return ""
	}
	return PlainText(RichTextsFrom(m["rich_text"]))
}

// CheckboxProperty returns the value of a checkbox property.
// Missing or differently-typed properties read as false.
func (p *Page) CheckboxProperty(name string) bool {
	m, ok := p.Properties[name].(map[string]interface{})
	if !ok {
		return false
	}
	v, _ := m["checkbox"].(bool)
	return v
}

// CoverURL returns the page cover image URL, external or file-hosted,
// or "" when the page has no cover.
func (p *Page) CoverURL() string {
	return FileObjectURL(p.Cover)
}

// FileObjectURL extracts the URL from a Notion file object
// ({type: "external"|"file", external: {url}, file: {url}}).
func FileObjectURL(obj map[string]interface{}) string {
	if obj == nil {
		return ""
	}
	t, _ := obj["type"].(string)
	inner, _ := obj[t].(map[string]interface{})
	if inner == nil {
		return ""
	}
	u, _ := inner["url"].(string)
	return u
}
