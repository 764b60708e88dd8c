package build

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// listSuffix marks list-valued form fields.
const listSuffix = "[]"

// values returns the non-nil values stored under name and name+"[]", in
// that order.
func (r RawInput) values(name string) []any {
	var out []any
	for _, key := range []string{name, name + listSuffix} {
		if value, ok := r[key]; ok && value != nil {
			out = append(out, value)
		}
	}
	return out
}

// first returns the first non-blank value stored under any of names.
func (r RawInput) first(names ...string) (any, bool) {
	for _, name := range names {
		for _, value := range r.values(name) {
			if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
				continue
			}
			return value, true
		}
	}
	return nil, false
}

// text returns the first value under names rendered as trimmed text.
func (r RawInput) text(names ...string) string {
	value, ok := r.first(names...)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
		return ""
	case []string:
		if len(v) == 1 {
			return strings.TrimSpace(v[0])
		}
		return ""
	case float64, int, int64, json.Number, bool:
		return strings.TrimSpace(toString(v))
	default:
		return ""
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// parseInt reads an integer from a number or numeric text. Fractional values
// and unparseable text report false; whole numbers beyond the int range
// saturate at its bounds.
func parseInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return wholeFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return wholeFloat(f)
	case string:
		trimmed := strings.TrimPrefix(strings.TrimSpace(v), "+")
		// Atoi saturates on range errors.
		if n, err := strconv.Atoi(trimmed); err == nil || errors.Is(err, strconv.ErrRange) {
			return n, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return wholeFloat(f)
	case []any:
		if len(v) == 1 {
			return parseInt(v[0])
		}
		return 0, false
	default:
		return 0, false
	}
}

func wholeFloat(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	case f != math.Trunc(f):
		return 0, false
	default:
		return int(f), true
	}
}

// decodeJSONText decodes text that looks like a JSON array or object.
func decodeJSONText(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '[' && trimmed[0] != '{') {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// splitList splits free text on newlines, semicolons and commas.
func splitList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ';' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
