package notion

import (
	"fmt"
	"regexp"
	"strings"
)

var notionIDRegex = regexp.MustCompile(`(?i)([0-9a-f]{32}|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`)

// ExtractID extracts a Notion page/block ID from a URL or raw ID string.
func ExtractID(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("page ID or URL is required")
	}

	match := notionIDRegex.FindString(s)
	if match == "" {
		return "", fmt.Errorf("no Notion ID found in %q", s)
	}

	return strings.ToLower(match), nil
}
