package build

import (
	"regexp"
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// classLevelPattern splits "Fighter 3" or "Fighter lvl 3" into name and level.
var classLevelPattern = regexp.MustCompile(`(?i)^(.*?)\s*(?:\(|lvl\.?\s*|level\s*)?(\d+)\)?$`)

type rawClass struct {
	ref   string
	level any
}

// normalizeClasses accepts a list of records or strings, a single record,
// free text, JSON text, or the flat class and level fields.
func normalizeClasses(raw RawInput, classes []rules.Class) []ClassEntry {
	var found []rawClass
	for _, value := range raw.values("classes") {
		found = append(found, collectClasses(value)...)
	}
	flatLevel, hasFlatLevel := raw.first("level")
	if len(found) == 0 {
		if value, ok := raw.first("class"); ok {
			found = collectClasses(value)
		}
	}

	out := make([]ClassEntry, 0, len(found))
	for _, item := range found {
		if strings.TrimSpace(item.ref) == "" {
			continue
		}
		level := item.level
		if level == nil && hasFlatLevel && len(found) == 1 {
			level = flatLevel
		}
		out = append(out, ClassEntry{
			Ref:   canonicalRef(strings.TrimSpace(item.ref), classes),
			Level: normalizeLevel(level),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func collectClasses(value any) []rawClass {
	switch v := value.(type) {
	case string:
		if decoded, ok := decodeJSONText(v); ok {
			return collectClasses(decoded)
		}
		var out []rawClass
		for _, fragment := range strings.FieldsFunc(v, func(r rune) bool {
			return r == '/' || r == ',' || r == ';' || r == '\n'
		}) {
			if item, ok := parseClassText(fragment); ok {
				out = append(out, item)
			}
		}
		return out
	case []any:
		var out []rawClass
		for _, item := range v {
			out = append(out, collectClasses(item)...)
		}
		return out
	case []string:
		var out []rawClass
		for _, item := range v {
			out = append(out, collectClasses(item)...)
		}
		return out
	case map[string]any:
		ref, ok := resolve.Reference(v["class"])
		if !ok {
			ref, ok = resolve.Reference(v)
		}
		if !ok {
			return nil
		}
		level := v["level"]
		if level == nil {
			level = v["levels"]
		}
		return []rawClass{{ref: ref, level: level}}
	default:
		return nil
	}
}

func parseClassText(fragment string) (rawClass, bool) {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return rawClass{}, false
	}
	if match := classLevelPattern.FindStringSubmatch(trimmed); match != nil && strings.TrimSpace(match[1]) != "" {
		return rawClass{ref: strings.TrimSpace(match[1]), level: match[2]}, true
	}
	return rawClass{ref: trimmed}, true
}

// normalizeLevel clamps to [1, MaxLevel]; missing or malformed values are 1.
func normalizeLevel(value any) int {
	level, ok := parseInt(value)
	if !ok {
		return 1
	}
	return clamp(level, 1, MaxLevel)
}
