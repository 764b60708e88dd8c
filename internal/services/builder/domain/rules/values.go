package rules

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flag is a boolean that datasets may spell as a bool, a yes/no string, a
// number or a non-empty object describing the feature.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Flag(Truthy(raw))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*f = Flag(Truthy(raw))
	return nil
}

// Truthy interprets loosely typed dataset values as booleans.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no", "none", "off":
			return false
		default:
			return true
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// Number is a quantity that datasets may spell as a JSON number or as text
// such as "3 lb" or "1/2".
type Number float64

var numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+(?:/\d+)?`)

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Number(ParseNumber(raw))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*n = Number(ParseNumber(raw))
	return nil
}

// Float returns the value as float64.
func (n Number) Float() float64 { return float64(n) }

// ParseNumber extracts the first number from a loosely typed value. Values
// without a number yield 0.
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		match := numberPattern.FindString(v)
		if match == "" {
			return 0
		}
		if num, den, ok := strings.Cut(match, "/"); ok {
			top, err1 := strconv.ParseFloat(num, 64)
			bottom, err2 := strconv.ParseFloat(den, 64)
			if err1 != nil || err2 != nil || bottom == 0 {
				return 0
			}
			return top / bottom
		}
		f, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// StringList flattens a string or list value into trimmed non-empty strings.
func StringList(value any) []string {
	var out []string
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	case []string:
		for _, item := range v {
			out = append(out, StringList(item)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, StringList(item)...)
		}
	}
	return out
}
