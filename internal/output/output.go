// Package output prints CLI results as JSON with optional jq or
// JSONPath filtering.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/itchyny/gojq"
)

// Printer writes JSON results to a writer.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes data as indented JSON, applying the jq expression and/or
// JSONPath if non-empty (jq first).
func (p *Printer) Print(data interface{}, jqExpr, jsonPathExpr string) error {
	normalized, err := normalize(data)
	if err != nil {
		return err
	}

	if jqExpr != "" {
		normalized, err = ApplyJQ(normalized, jqExpr)
		if err != nil {
			return err
		}
	}
	if jsonPathExpr != "" {
		normalized, err = ApplyJSONPath(normalized, jsonPathExpr)
		if err != nil {
			return err
		}
	}

	// A filter reducing to a bare string prints raw, like jq -r.
	if s, ok := normalized.(string); ok && (jqExpr != "" || jsonPathExpr != "") {
		_, err = fmt.Fprintln(p.w, s)
		return err
	}

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(normalized)
}

// ApplyJQ runs a gojq expression over the data. A single result is
// returned as-is; multiple results come back as a slice.
func ApplyJQ(data interface{}, expr string) (interface{}, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	var results []interface{}
	iter := query.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq evaluation failed: %w", err)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// ApplyJSONPath evaluates a JSONPath expression over the data.
func ApplyJSONPath(data interface{}, path string) (interface{}, error) {
	result, err := jsonpath.Get(path, data)
	if err != nil {
		return nil, fmt.Errorf("jsonpath evaluation failed: %w", err)
	}
	return result, nil
}

// normalize round-trips data through JSON so filters see plain
// map[string]interface{} / []interface{} values.
func normalize(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
