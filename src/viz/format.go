package viz

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmDash is the placeholder shown for empty or missing values.
const EmDash = "—"

// ValueType annotates how a raw value should be formatted for display.
type ValueType string

const (
	ValueNumber   ValueType = "number"
	ValueCurrency ValueType = "currency"
	ValuePercent  ValueType = "percent"
	ValueText     ValueType = "text"
)

// ParseValueType resolves a column type annotation, defaulting to number.
func ParseValueType(s string) ValueType {
	switch ValueType(strings.ToLower(s)) {
	case ValueCurrency:
		return ValueCurrency
	case ValuePercent:
		return ValuePercent
	case ValueText, "string":
		return ValueText
	}
	return ValueNumber
}

// labelOverrides maps whole keys (lower-cased) to display labels that the
// generic Title Case conversion would mangle, mostly acronyms.
var labelOverrides = map[string]string{
	"nct_id": "NCT ID",
	"cagr":   "CAGR",
	"usd":    "USD",
	"id":     "ID",
	"url":    "URL",
	"roi":    "ROI",
	"yoy":    "YoY",
	"fda":    "FDA",
	"api":    "API",
}

// printer gives locale-aware digit grouping for integer display.
var printer = message.NewPrinter(language.English)

// FormatLabel converts a raw field key into a human-readable column or
// series label. Whole-key acronyms come from a small override dictionary;
// everything else gets snake_case and camelCase split into Title Case.
// An empty key yields an empty string.
func FormatLabel(key string) string {
	if key == "" {
		return ""
	}
	if label, ok := labelOverrides[strings.ToLower(key)]; ok {
		return label
	}

	// Insert spaces before capitals, turn underscores into spaces
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case i > 0 && unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// FormatValue converts a raw value into display text. Nil and empty-string
// values render as an em-dash. Numbers without a type annotation use
// compact notation (1.5K, 2.3M, 1.2B) above a thousand, grouped digits for
// smaller integers and two decimals for smaller fractions. Anything
// non-numeric falls through to its string form.
func FormatValue(v any, typ ValueType) string {
	if v == nil {
		return EmDash
	}
	if s, ok := v.(string); ok && s == "" {
		return EmDash
	}

	switch typ {
	case ValueCurrency:
		if f, ok := toFloat64(v); ok {
			n := int64(math.Round(f))
			if n < 0 {
				return printer.Sprintf("-$%d", -n)
			}
			return printer.Sprintf("$%d", n)
		}
	case ValuePercent:
		if f, ok := toFloat64(v); ok {
			return fmt.Sprintf("%.1f%%", f)
		}
	case ValueText:
		return valueString(v)
	default:
		if f, ok := toFloat64(v); ok {
			return formatCompact(f)
		}
	}

	return fmt.Sprintf("%v", v)
}

// formatCompact applies the K/M/B suffix scheme to a plain number.
func formatCompact(f float64) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", f/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", f/1e3)
	case f == math.Trunc(f):
		return printer.Sprintf("%d", int64(f))
	default:
		return fmt.Sprintf("%.2f", f)
	}
}

// palette is the fixed series color cycle shared by every chart type.
var palette = []string{
	"#e94560", "#4ecdc4", "#ffeaa7", "#74b9ff",
	"#ff6b6b", "#45b7d1", "#a29bfe", "#55efc4",
}

// PaletteColor returns the color for a series or data point index. Indices
// wrap modulo the palette length; there is no hidden cursor state.
func PaletteColor(i int) string {
	n := len(palette)
	return palette[((i%n)+n)%n]
}

// Truncation budgets for long labels. Tuned for readability, not derived
// from a layout constraint; callers may pass their own budget to Truncate.
const (
	TruncateVertical   = 10 // category labels under vertical bars
	TruncateHorizontal = 25 // category labels beside horizontal bars
	TruncateCell       = 40 // table cell display text
)

// Truncate shortens s to at most maxLen characters, appending an ellipsis
// when anything was cut. Budgets count runes, so multi-byte labels are
// never cut mid-character.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
