// Package companion normalizes ally creatures into a uniform stat profile.
package companion

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/louisbranch/questkit/internal/services/builder/domain/resolve"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// Profile is the display view of an ally.
type Profile struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Summary         string   `json:"summary,omitempty"`
	Size            string   `json:"size,omitempty"`
	Type            string   `json:"type,omitempty"`
	ArmorClass      *int     `json:"armorClass,omitempty"`
	HitPoints       *int     `json:"hitPoints,omitempty"`
	Speed           string   `json:"speed,omitempty"`
	ChallengeRating string   `json:"challengeRating,omitempty"`
	Traits          []string `json:"traits,omitempty"`
}

// speedFields are consulted, in order, for the distance of a movement mode
// given as a record.
var speedFields = []string{"distance", "value", "speed", "amount"}

// Resolve finds ref among allies and normalizes it. Unknown refs report
// false and a profile carrying only the literal name.
func Resolve(ref string, allies []rules.Ally) (Profile, bool) {
	ally, ok := resolve.Find(ref, allies)
	if !ok {
		return Profile{Key: ref, Name: ref}, false
	}
	return Normalize(ally), true
}

// Normalize flattens armor class, hit points, speed and traits.
func Normalize(ally rules.Ally) Profile {
	return Profile{
		Key:             ally.Key(),
		Name:            ally.DisplayName(),
		Summary:         ally.Summary,
		Size:            strings.TrimSpace(ally.Size),
		Type:            strings.TrimSpace(ally.Type),
		ArmorClass:      stat(ally.ArmorClass),
		HitPoints:       stat(ally.HitPoints),
		Speed:           formatSpeed(ally.Speed),
		ChallengeRating: challengeRating(ally.ChallengeRating),
		Traits:          traits(ally.Traits),
	}
}

// stat reads a number or the leading number of text such as "11 (2d8 + 2)".
func stat(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		if !strings.ContainsAny(v, "0123456789") {
			return nil
		}
	}
	n := int(math.Round(rules.ParseNumber(value)))
	return &n
}

func challengeRating(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return formatNumber(v)
	case int:
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(value float64) string {
	switch value {
	case 0.125:
		return "1/8"
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	}
	return fmt.Sprint(value)
}

// formatSpeed renders a speed given as text, a list of labels, or a map of
// movement mode to distance. Map modes are listed walk first, then by name.
func formatSpeed(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		var parts []string
		for _, entry := range v {
			if record, ok := entry.(map[string]any); ok {
				entry = record["label"]
			}
			if text := strings.TrimSpace(toText(entry)); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(rules.StringList(v), ", ")
	case map[string]any:
		modes := make([]string, 0, len(v))
		for mode := range v {
			modes = append(modes, mode)
		}
		sort.Slice(modes, func(i, j int) bool {
			if (modes[i] == "walk") != (modes[j] == "walk") {
				return modes[i] == "walk"
			}
			return modes[i] < modes[j]
		})
		var parts []string
		for _, mode := range modes {
			distance := v[mode]
			if record, ok := distance.(map[string]any); ok {
				distance = nil
				for _, field := range speedFields {
					if record[field] != nil {
						distance = record[field]
						break
					}
				}
			}
			text := strings.TrimSpace(toText(distance))
			if text == "" {
				continue
			}
			parts = append(parts, strings.ReplaceAll(mode, "_", " ")+" "+text)
		}
		return strings.Join(parts, ", ")
	default:
		return toText(v)
	}
}

// traits flattens names and descriptions into "Name. Description" lines.
func traits(value any) []string {
	var out []string
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	case []string:
		out = rules.StringList(v)
	case []any:
		for _, entry := range v {
			record, ok := entry.(map[string]any)
			if !ok {
				if text := strings.TrimSpace(toText(entry)); text != "" {
					out = append(out, text)
				}
				continue
			}
			var parts []string
			for _, fields := range [][]string{{"name", "title"}, {"desc", "description", "text"}} {
				for _, field := range fields {
					if text := strings.TrimSpace(toText(record[field])); text != "" {
						parts = append(parts, text)
						break
					}
				}
			}
			if line := strings.Join(parts, ". "); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

func toText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}
