package notion

import (
	"context"
	"fmt"
)

// QueryDataSourceRequest represents the request body for querying a data source.
type QueryDataSourceRequest struct {
	Filter      map[string]interface{}   `json:"filter,omitempty"`
	Sorts       []map[string]interface{} `json:"sorts,omitempty"`
	StartCursor string                   `json:"start_cursor,omitempty"`
	PageSize    int                      `json:"page_size,omitempty"`
}

// DataSourceQueryResult represents a paginated query result.
type DataSourceQueryResult struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// QueryDataSource queries a data source with optional filters and sorts.
// See: https://developers.notion.com/reference/query-a-data-source
func (c *Client) QueryDataSource(ctx context.Context, dataSourceID string, req *QueryDataSourceRequest) (*DataSourceQueryResult, error) {
	if dataSourceID == "" {
		return nil, fmt.Errorf("data source ID is required")
	}
	if req == nil {
		req = &QueryDataSourceRequest{}
	}
	if req.PageSize < 0 || req.PageSize > 100 {
		return nil, fmt.Errorf("page_size must be between 0 and 100")
	}

	path := fmt.Sprintf("/data_sources/%s/query", dataSourceID)
	var result DataSourceQueryResult

	if err := c.doPost(ctx, path, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// RichTextEqualsFilter builds a data source filter matching pages whose
// rich_text property equals the given value (used for slug lookup).
func RichTextEqualsFilter(property, value string) map[string]interface{} {
	return map[string]interface{}{
		"property": property,
		"rich_text": map[string]interface{}{
			"equals": value,
		},
	}
}

// CheckboxEqualsFilter builds a data source filter matching pages whose
// checkbox property equals the given value (used for draft filtering).
func CheckboxEqualsFilter(property string, value bool) map[string]interface{} {
	return map[string]interface{}{
		"property": property,
		"checkbox": map[string]interface{}{
			"equals": value,
		},
	}
}

// AndFilter combines filters with a top-level "and".
func AndFilter(filters ...map[string]interface{}) map[string]interface{} {
	if len(filters) == 1 {
		return filters[0]
	}
	return map[string]interface{}{"and": filters}
}
