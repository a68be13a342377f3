// Package validate holds input validation helpers for IDs and config.
package validate

import (
	"fmt"
	"regexp"
)

// uuidRegex matches Notion UUIDs with or without dashes.
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{12}$`)

// UUID validates that the value is a Notion UUID, dashed or not.
func UUID(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}
	if !uuidRegex.MatchString(value) {
		return fmt.Errorf("%s: must be a valid UUID, got %q", field, value)
	}
	return nil
}

// NonEmpty validates that a required string field is not empty.
func NonEmpty(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}
	return nil
}
