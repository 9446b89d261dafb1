// Package present shapes kintone response bodies for tool output: field
// objects are flattened to their values and long arrays and strings are
// trimmed.
package present

import (
	"encoding/json"
	"fmt"
)

// Options controls how a body is shaped.
type Options struct {
	MaxArrayItems int  // Trim arrays to N items (0 = no limit)
	MaxStringLen  int  // Truncate strings longer than N bytes (0 = no limit)
	MaxDepth      int  // Max recursion depth (0 = unlimited)
	FlattenFields bool // Replace {"type":..,"value":..} field objects with the value
}

// Default values for shaping options.
const (
	DefaultMaxArrayItems = 20
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0
)

// DefaultOptions returns the default shaping settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Body parses a JSON body and shapes it. If opts is nil, DefaultOptions is used.
func Body(data []byte, opts *Options) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Value(v, opts), nil
}

// Value shapes an already decoded JSON value.
func Value(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	return shape(v, opts, 0)
}

func shape(v any, opts *Options, depth int) any {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return "[max depth]"
	}

	switch val := v.(type) {
	case []any:
		return shapeArray(val, opts, depth)
	case map[string]any:
		if opts.FlattenFields {
			if inner, ok := fieldValue(val); ok {
				return shape(inner, opts, depth)
			}
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = shape(item, opts, depth+1)
		}
		return out
	case string:
		if opts.MaxStringLen <= 0 || len(val) <= opts.MaxStringLen {
			return val
		}
		return val[:opts.MaxStringLen] + fmt.Sprintf("... (%d more chars)", len(val)-opts.MaxStringLen)
	default:
		return v
	}
}

func shapeArray(arr []any, opts *Options, depth int) []any {
	n := len(arr)
	if opts.MaxArrayItems > 0 && n > opts.MaxArrayItems {
		n = opts.MaxArrayItems
	}
	out := make([]any, 0, n+1)
	for _, item := range arr[:n] {
		out = append(out, shape(item, opts, depth+1))
	}
	if n < len(arr) {
		out = append(out, fmt.Sprintf("... (%d more items)", len(arr)-n))
	}
	return out
}

// fieldValue recognizes a kintone field object: exactly "type" and "value",
// with a string type.
func fieldValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, ok := m["type"].(string); !ok {
		return nil, false
	}
	v, ok := m["value"]
	return v, ok
}
