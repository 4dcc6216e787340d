package viz

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// VizType identifies a rendering strategy. The set is closed: anything an
// agent emits outside this enumeration degrades to an unsupported
// placeholder instead of an error.
type VizType string

const (
	TypeBar   VizType = "bar"
	TypePie   VizType = "pie"
	TypeLine  VizType = "line"
	TypeArea  VizType = "area"
	TypeTable VizType = "table"
	TypeCard  VizType = "card"
	TypeImage VizType = "image"
)

// ResolveType matches a raw type tag against the enumeration,
// case-insensitively. Returns false for anything unknown, including the
// empty string.
func ResolveType(s string) (VizType, bool) {
	switch t := VizType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeBar, TypePie, TypeLine, TypeArea, TypeTable, TypeCard, TypeImage:
		return t, true
	}
	return "", false
}

// Record is the unit of renderable data produced by an upstream agent.
// The Data shape depends on VizType: chart types carry a sequence of
// field-name→value records, tables carry {columns, rows}, cards carry
// {value, delta, unit}, images carry {imageUrl|content, caption, ...}.
// Records are treated as immutable inputs; rendering never mutates Data.
type Record struct {
	ID          string `json:"id,omitempty"`
	VizType     string `json:"vizType"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Data        any    `json:"data,omitempty"`
	Config      Config `json:"config,omitempty"`
}

// Config carries the per-type rendering options an agent may attach to a
// record. Unused fields are simply ignored by the renderer that runs.
type Config struct {
	XField      string   `json:"xField,omitempty"`
	YField      string   `json:"yField,omitempty"`
	YFields     []string `json:"yFields,omitempty"`
	LabelField  string   `json:"labelField,omitempty"`
	ValueField  string   `json:"valueField,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	PageSize    int      `json:"pageSize,omitempty"`
}

// toFloat64 converts various numeric types to float64
func toFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f, true
		}
		if i, err := val.Int64(); err == nil {
			return float64(i), true
		}
		return 0, false
	default:
		// Try reflection for other numeric types
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		case reflect.Float32, reflect.Float64:
			return rv.Float(), true
		}
		return 0, false
	}
}

// valueString renders a raw field value as display text without any
// compact-notation formatting. Integers drop the trailing ".0" a JSON
// round-trip would otherwise produce.
func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// asRecordSlice coerces a loosely-typed data payload into a sequence of
// records. Anything that is not a sequence of maps yields nil, so malformed
// chart or row data collapses into the empty-state path instead of a panic.
func asRecordSlice(v any) []map[string]any {
	switch val := v.(type) {
	case nil:
		return nil
	case []map[string]any:
		return val
	case []any:
		out := make([]map[string]any, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// asMap coerces a data payload into a single map, for the card, image and
// table shapes. Non-map input yields nil.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmpty returns the first non-empty string, used to resolve field
// name configuration against defaults.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
