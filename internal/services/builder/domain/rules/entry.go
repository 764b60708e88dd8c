package rules

import "strings"

// Entry holds the identity fields shared by every dataset record.
type Entry struct {
	Slug    string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source  string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Identified is implemented by every dataset record through its Entry.
type Identified interface {
	Identity() Entry
}

// Identity returns the entry itself.
func (e Entry) Identity() Entry { return e }

// Key returns the canonical key: slug, else id, else name.
func (e Entry) Key() string {
	for _, candidate := range []string{e.Slug, e.ID, e.Name} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// DisplayName returns the name, falling back to the key.
func (e Entry) DisplayName() string {
	if name := strings.TrimSpace(e.Name); name != "" {
		return name
	}
	return e.Key()
}

// HasTag reports whether any tag equals tag, ignoring case.
func (e Entry) HasTag(tag string) bool {
	for _, candidate := range e.Tags {
		if strings.EqualFold(strings.TrimSpace(candidate), tag) {
			return true
		}
	}
	return false
}

// Slugify lowercases value and collapses every run of characters outside
// [a-z0-9] into a single hyphen.
func Slugify(value string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
