package notion

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Block represents a Notion block.
// See: https://developers.notion.com/reference/block
type Block struct {
	Object         string `json:"object"`
	ID             string `json:"id"`
	Type           string `json:"type"`
	CreatedTime    string `json:"created_time"`
	LastEditedTime string `json:"last_edited_time"`
	HasChildren    bool   `json:"has_children"`
	Archived       bool   `json:"archived"`
	// Content holds the type-specific payload keyed by Type
	// (e.g., the "paragraph" object for a paragraph block).
	Content map[string]interface{} `json:"-"`
}

// BlockList represents a paginated list of blocks.
type BlockList struct {
	Object     string  `json:"object"`
	Results    []Block `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// BlockChildrenOptions holds pagination options for getting block children.
type BlockChildrenOptions struct {
	StartCursor string
	PageSize    int
}

// RichText returns the block's "rich_text" payload, decoded.
// Returns nil for kinds that carry no rich text.
func (b *Block) RichText() []RichText {
	if b.Content == nil {
		return nil
	}
	return RichTextsFrom(b.Content["rich_text"])
}

// ContentString returns a string field from the type-specific payload.
func (b *Block) ContentString(key string) string {
	if b.Content == nil {
		return ""
	}
	s, _ := b.Content[key].(string)
	return s
}

// ContentBool returns a boolean field from the type-specific payload.
func (b *Block) ContentBool(key string) bool {
	if b.Content == nil {
		return false
	}
	v, _ := b.Content[key].(bool)
	return v
}

// ContentMap returns a nested object field from the type-specific payload.
func (b *Block) ContentMap(key string) map[string]interface{} {
	if b.Content == nil {
		return nil
	}
	m, _ := b.Content[key].(map[string]interface{})
	return m
}

// GetBlock retrieves a block by ID.
// See: https://developers.notion.com/reference/retrieve-a-block
func (c *Client) GetBlock(ctx context.Context, blockID string) (*Block, error) {
	if blockID == "" {
		return nil, fmt.Errorf("block ID is required")
	}

	path := fmt.Sprintf("/blocks/%s", blockID)
	var result map[string]interface{}

	if err := c.doGet(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return parseBlock(result), nil
}

// GetBlockChildren retrieves one page of a block's children.
// See: https://developers.notion.com/reference/get-block-children
func (c *Client) GetBlockChildren(ctx context.Context, blockID string, opts *BlockChildrenOptions) (*BlockList, error) {
	if blockID == "" {
		return nil, fmt.Errorf("block ID is required")
	}

	path := fmt.Sprintf("/blocks/%s/children", blockID)
	query := url.Values{}

	if opts != nil {
		if opts.StartCursor != "" {
			query.Set("start_cursor", opts.StartCursor)
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}

	var result map[string]interface{}
	if err := c.doGet(ctx, path, query, &result); err != nil {
		return nil, err
	}

	return parseBlockList(result), nil
}

// parseBlock converts a raw JSON response into a Block.
// The type-specific payload stays under Content so callers can read it
// without a struct per block kind.
func parseBlock(data map[string]interface{}) *Block {
	block := &Block{
		Content: make(map[string]interface{}),
	}

	if v, ok := data["object"].(string); ok {
		block.Object = v
	}
	if v, ok := data["id"].(string); ok {
		block.ID = v
	}
	if v, ok := data["type"].(string); ok {
		block.Type = v
		if content, ok := data[v].(map[string]interface{}); ok {
			block.Content = content
		}
	}
	if v, ok := data["created_time"].(string); ok {
		block.CreatedTime = v
	}
	if v, ok := data["last_edited_time"].(string); ok {
		block.LastEditedTime = v
	}
	if v, ok := data["has_children"].(bool); ok {
		block.HasChildren = v
	}
	if v, ok := data["archived"].(bool); ok {
		block.Archived = v
	}

	return block
}

// parseBlockList converts a raw JSON response into a BlockList.
func parseBlockList(data map[string]interface{}) *BlockList {
	blockList := &BlockList{}

	if v, ok := data["object"].(string); ok {
		blockList.Object = v
	}
	if v, ok := data["has_more"].(bool); ok {
		blockList.HasMore = v
	}
	if v, ok := data["next_cursor"].(string); ok && v != "" {
		blockList.NextCursor = &v
	}

	if results, ok := data["results"].([]interface{}); ok {
		blockList.Results = make([]Block, 0, len(results))
		for _, item := range results {
			if blockData, ok := item.(map[string]interface{}); ok {
				blockList.Results = append(blockList.Results, *parseBlock(blockData))
			}
		}
	}

	return blockList
}
